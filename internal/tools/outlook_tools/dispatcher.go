package outlook_tools

import (
	"context"
	"fmt"

	"github.com/teemow/outlook-mcp/internal/graph"
	"github.com/teemow/outlook-mcp/internal/logging"
	"github.com/teemow/outlook-mcp/internal/outlook"
)

// Mailbox is the set of remote operations behind the tools.
// *outlook.Mailbox implements it.
type Mailbox interface {
	SendEmail(ctx context.Context, in outlook.SendEmailInput) (*outlook.SendEmailResult, error)
	ReadEmails(ctx context.Context, in outlook.ReadEmailsInput) (*outlook.ReadEmailsResult, error)
	CreateCalendarEvent(ctx context.Context, in outlook.CreateEventInput) (*outlook.CreateEventResult, error)
	GetCalendarEvents(ctx context.Context, in outlook.GetEventsInput) (*outlook.GetEventsResult, error)
	SearchContacts(ctx context.Context, in outlook.SearchContactsInput) (*outlook.SearchContactsResult, error)
	CreateContact(ctx context.Context, in outlook.CreateContactInput) (*outlook.CreateContactResult, error)
}

var _ Mailbox = (*outlook.Mailbox)(nil)

// MailboxSource returns the signed-in mailbox, signing in if needed.
type MailboxSource func(ctx context.Context) (Mailbox, error)

// Dispatcher turns tool calls into mailbox operations.
type Dispatcher struct {
	source MailboxSource
	logger logging.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger logging.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher creates a Dispatcher. source is called on every dispatch
// and must be cheap once signed in.
func NewDispatcher(source MailboxSource, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{source: source}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrDefault(d.logger)
	return d
}

// Dispatch runs the named tool. It never panics and never returns a Go
// error; every failure is a failed Envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool call panicked", logging.Tool(name), "panic", r)
			env = Fail(fmt.Errorf("internal error: %v", r))
		}
	}()

	mailbox, err := d.source(ctx)
	if err != nil {
		d.logger.Warn("tool call rejected, no session", logging.Tool(name), logging.Err(err))
		return Fail(err)
	}

	kind, ok := ParseKind(name)
	if !ok {
		d.logger.Warn("unknown tool", logging.Tool(name))
		return Fail(fmt.Errorf("Unknown tool: %s", name))
	}

	payload, err := invoke(ctx, mailbox, kind, args)
	if err != nil {
		d.logger.Warn("tool call failed", logging.Tool(name), logging.Status(logging.StatusError), logging.Err(err))
		if graph.IsUnauthorized(err) {
			d.logger.Warn("access token rejected by Microsoft Graph; restart the server to sign in again")
		}
		return Fail(err)
	}
	d.logger.Debug("tool call succeeded", logging.Tool(name), logging.Status(logging.StatusSuccess))
	return Succeed(payload)
}

func invoke(ctx context.Context, mb Mailbox, kind Kind, args map[string]any) (any, error) {
	switch kind {
	case KindSendEmail:
		a, err := decodeSendEmail(args)
		if err != nil {
			return nil, err
		}
		return mb.SendEmail(ctx, a.input())

	case KindReadEmails:
		a, err := decodeReadEmails(args)
		if err != nil {
			return nil, err
		}
		return mb.ReadEmails(ctx, a.input())

	case KindCreateCalendarEvent:
		a, err := decodeCreateCalendarEvent(args)
		if err != nil {
			return nil, err
		}
		return mb.CreateCalendarEvent(ctx, a.input())

	case KindGetCalendarEvents:
		a, err := decodeGetCalendarEvents(args)
		if err != nil {
			return nil, err
		}
		return mb.GetCalendarEvents(ctx, a.input())

	case KindSearchContacts:
		a, err := decodeSearchContacts(args)
		if err != nil {
			return nil, err
		}
		return mb.SearchContacts(ctx, a.input())

	case KindCreateContact:
		a, err := decodeCreateContact(args)
		if err != nil {
			return nil, err
		}
		return mb.CreateContact(ctx, a.input())
	}
	return nil, fmt.Errorf("Unknown tool: %s", kind)
}
