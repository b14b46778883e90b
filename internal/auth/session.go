package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/outlook-mcp/internal/config"
	"github.com/teemow/outlook-mcp/internal/graph"
	"github.com/teemow/outlook-mcp/internal/instrumentation"
	"github.com/teemow/outlook-mcp/internal/logging"
)

// State is the sign-in state of a Session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session owns one identity and at most one access token.
type Session struct {
	identity      config.Identity
	authorityHost string
	flow          DeviceFlow
	prompt        PromptFunc
	logger        logging.Logger
	metrics       *instrumentation.Metrics
	graphOptions  []graph.Option

	// authMu serializes sign-in; mu guards the fields below.
	authMu sync.Mutex
	mu     sync.RWMutex
	state  State
	token  *oauth2.Token
	client *graph.Client
}

// Option configures a Session.
type Option func(*Session)

// WithDeviceFlow replaces the identity platform exchange.
func WithDeviceFlow(flow DeviceFlow) Option {
	return func(s *Session) { s.flow = flow }
}

// WithPrompt sets how the device code is shown to the user.
func WithPrompt(prompt PromptFunc) Option {
	return func(s *Session) { s.prompt = prompt }
}

// WithAuthorityHost signs in against a sovereign cloud authority.
func WithAuthorityHost(host string) Option {
	return func(s *Session) { s.authorityHost = host }
}

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithMetrics records sign-in outcomes.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(s *Session) { s.metrics = metrics }
}

// WithGraphOptions are passed to graph.NewClient.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(s *Session) { s.graphOptions = append(s.graphOptions, opts...) }
}

// NewSession creates an unauthenticated session. Nothing is sent to the
// identity platform until AccessToken or Client is called.
func NewSession(identity config.Identity, opts ...Option) *Session {
	s := &Session{identity: identity}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	if s.flow == nil {
		s.flow = NewDeviceFlow(identity, s.authorityHost)
	}
	if s.prompt == nil {
		s.prompt = StderrPrompt()
	}
	return s
}

// Identity returns the identity the session signs in as.
func (s *Session) Identity() config.Identity {
	return s.identity
}

// State returns the current sign-in state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Expiry returns when the access token expires, or the zero time.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return time.Time{}
	}
	return s.token.Expiry
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) cachedToken() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// AccessToken returns the cached token, running the device code flow first
// if there is none. Concurrent callers wait for a single sign-in. A failed
// sign-in caches nothing.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	if tok := s.cachedToken(); tok != nil {
		return tok.AccessToken, nil
	}

	s.authMu.Lock()
	defer s.authMu.Unlock()

	if tok := s.cachedToken(); tok != nil {
		return tok.AccessToken, nil
	}

	tok, err := s.signIn(ctx)
	if err != nil {
		s.setState(StateUnauthenticated)
		var authErr *AuthError
		result := instrumentation.AuthResultFailure
		if errors.As(err, &authErr) {
			result = authErr.Result()
		}
		s.metrics.RecordDeviceCodeAuth(ctx, result)
		s.logger.Error("device code sign-in failed", logging.Err(err))
		return "", err
	}

	s.mu.Lock()
	s.token = tok
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.metrics.RecordDeviceCodeAuth(ctx, instrumentation.AuthResultSuccess)
	s.logger.Info("signed in to Microsoft Graph; the token is not refreshed, restart the server after it expires",
		"expiry", tok.Expiry,
		"token", logging.SanitizeToken(tok.AccessToken))
	return tok.AccessToken, nil
}

func (s *Session) signIn(ctx context.Context) (tok *oauth2.Token, err error) {
	s.setState(StateAuthenticating)

	ctx, span := instrumentation.StartAuthSpan(ctx)
	defer func() {
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
	}()

	s.logger.Info("requesting device code",
		logging.ClientID(s.identity.ClientID),
		logging.TenantID(s.identity.TenantID))

	da, err := s.flow.DeviceAuth(ctx)
	if err != nil {
		return nil, &AuthError{Stage: "device_code", Err: err}
	}

	challenge := Challenge{
		VerificationURI:         da.VerificationURI,
		VerificationURIComplete: da.VerificationURIComplete,
		UserCode:                da.UserCode,
		Expiry:                  da.Expiry,
	}
	if err := s.prompt(ctx, challenge); err != nil {
		return nil, &AuthError{Stage: "prompt", Err: err}
	}
	s.logger.Info("waiting for device code sign-in",
		"verification_uri", da.VerificationURI,
		"user_code", da.UserCode,
		"expires", da.Expiry)

	tok, err = s.flow.Poll(ctx, da)
	if err != nil {
		return nil, &AuthError{Stage: "token", Err: err}
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, &AuthError{Stage: "token", Err: errors.New("identity platform returned no access token")}
	}
	return tok, nil
}

// Client returns the Graph client, signing in first if needed.
// Every request carries the cached token unchanged.
func (s *Session) Client(ctx context.Context) (*graph.Client, error) {
	if _, err := s.AccessToken(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(s.token))
		opts := append([]graph.Option{graph.WithLogger(s.logger), graph.WithMetrics(s.metrics)}, s.graphOptions...)
		s.client = graph.NewClient(httpClient, opts...)
	}
	return s.client, nil
}
