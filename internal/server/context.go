package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/teemow/outlook-mcp/internal/auth"
	"github.com/teemow/outlook-mcp/internal/config"
	"github.com/teemow/outlook-mcp/internal/instrumentation"
	"github.com/teemow/outlook-mcp/internal/logging"
	"github.com/teemow/outlook-mcp/internal/outlook"
)

const bootstrapKey = "bootstrap"

// ErrShutdown is returned by Mailbox once the server context is shut down.
var ErrShutdown = errors.New("server is shutting down")

// ServerContext holds the state shared by all tool calls: the identity
// resolver, the signed-in session and the mailbox built on top of it.
type ServerContext struct {
	ctx            context.Context
	cancel         context.CancelFunc
	resolver       *config.Resolver
	sessionOptions []auth.Option
	logger         logging.Logger

	group singleflight.Group

	mu          sync.RWMutex
	session     *auth.Session // current or in-flight session
	mailbox     *outlook.Mailbox
	lastErr     error
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger used for bootstrap messages.
func WithLogger(logger logging.Logger) Option {
	return func(sc *ServerContext) { sc.logger = logger }
}

// WithSessionOptions are passed to auth.NewSession on every bootstrap attempt.
func WithSessionOptions(opts ...auth.Option) Option {
	return func(sc *ServerContext) { sc.sessionOptions = append(sc.sessionOptions, opts...) }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(sc *ServerContext) { sc.metrics = metrics }
}

// WithAuditLogger sets the tool audit logger.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.auditLogger = al }
}

// NewServerContext creates a server context. No identity is resolved and
// nothing is sent to Microsoft until the first call to Mailbox.
func NewServerContext(ctx context.Context, resolver *config.Resolver, opts ...Option) (*ServerContext, error) {
	if resolver == nil {
		return nil, fmt.Errorf("identity resolver is required")
	}
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.logger = logging.OrDefault(sc.logger)
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Mailbox returns the signed-in mailbox, running the bootstrap first if
// needed. Concurrent callers share a single bootstrap. A failed bootstrap
// stores nothing, so the next call starts over with a fresh identity
// lookup and a fresh session.
//
// The bootstrap runs on the server context so that a device code sign-in
// outlives the request that started it; ctx only bounds how long this
// caller waits.
func (sc *ServerContext) Mailbox(ctx context.Context) (*outlook.Mailbox, error) {
	sc.mu.RLock()
	mailbox, shutdown := sc.mailbox, sc.shutdown
	sc.mu.RUnlock()
	if shutdown {
		return nil, ErrShutdown
	}
	if mailbox != nil {
		return mailbox, nil
	}

	ch := sc.group.DoChan(bootstrapKey, func() (any, error) {
		sc.mu.RLock()
		mailbox := sc.mailbox
		sc.mu.RUnlock()
		if mailbox != nil {
			return mailbox, nil
		}
		return sc.bootstrap(sc.ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*outlook.Mailbox), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (sc *ServerContext) bootstrap(ctx context.Context) (*outlook.Mailbox, error) {
	identity, err := sc.resolver.ResolveValid()
	if err != nil {
		sc.fail(nil, err)
		return nil, err
	}
	sc.logger.Info("resolved identity",
		logging.ClientID(identity.ClientID),
		logging.TenantID(identity.TenantID),
		"client_id_source", identity.ClientIDSource,
		"tenant_id_source", identity.TenantIDSource)

	opts := append([]auth.Option{auth.WithLogger(sc.logger), auth.WithMetrics(sc.Metrics())}, sc.sessionOptions...)
	session := auth.NewSession(identity, opts...)

	sc.mu.Lock()
	sc.session = session
	sc.mu.Unlock()

	client, err := session.Client(ctx)
	if err != nil {
		sc.fail(session, err)
		return nil, err
	}
	mailbox := outlook.New(client)

	if profile, err := mailbox.Profile(ctx); err != nil {
		sc.logger.Warn("could not read signed-in profile", logging.Err(err))
	} else {
		sc.logger.Info("signed in", "user", profile.Mail, "name", profile.DisplayName)
	}

	sc.mu.Lock()
	sc.mailbox = mailbox
	sc.lastErr = nil
	sc.mu.Unlock()
	return mailbox, nil
}

func (sc *ServerContext) fail(session *auth.Session, err error) {
	sc.logger.Error("session bootstrap failed", logging.Err(err))
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if session != nil && sc.session == session {
		sc.session = nil
	}
	sc.lastErr = err
}

// Status describes the bootstrap state without triggering it.
type Status struct {
	State     string    `json:"state"`
	ClientID  string    `json:"clientId,omitempty"`
	TenantID  string    `json:"tenantId,omitempty"`
	Scopes    []string  `json:"scopes"`
	Expiry    time.Time `json:"expiry,omitzero"`
	LastError string    `json:"lastError,omitempty"`
}

// Status reports the current session state. Identifiers are redacted.
func (sc *ServerContext) Status() Status {
	sc.mu.RLock()
	session, lastErr := sc.session, sc.lastErr
	sc.mu.RUnlock()

	status := Status{
		State:  auth.StateUnauthenticated.String(),
		Scopes: append([]string(nil), auth.Scopes...),
	}
	if session != nil {
		id := session.Identity()
		status.State = session.State().String()
		status.ClientID = logging.RedactID(id.ClientID)
		status.TenantID = logging.RedactID(id.TenantID)
		status.Expiry = session.Expiry()
	}
	if lastErr != nil {
		status.LastError = lastErr.Error()
	}
	return status
}

// CurrentMailbox returns the mailbox if signed in, else nil. It never
// starts a sign-in.
func (sc *ServerContext) CurrentMailbox() *outlook.Mailbox {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.mailbox
}

// Authenticated reports whether a mailbox is available.
func (sc *ServerContext) Authenticated() bool {
	return sc.CurrentMailbox() != nil
}

// SetMetrics sets the metrics recorder used by tool handlers.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the tool audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the tool audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// Shutdown cancels the server context. In-flight sign-ins are abandoned.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.shutdown = true
	sc.cancel()
	return nil
}

// IsShutdown returns whether the server is shutting down
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}
