package outlook_tools

import "github.com/teemow/outlook-mcp/internal/instrumentation"

// Kind identifies one of the mailbox tools.
type Kind int

const (
	KindUnknown Kind = iota
	KindSendEmail
	KindReadEmails
	KindCreateCalendarEvent
	KindGetCalendarEvents
	KindSearchContacts
	KindCreateContact
)

// Tool names.
const (
	ToolSendEmail           = "send_email"
	ToolReadEmails          = "read_emails"
	ToolCreateCalendarEvent = "create_calendar_event"
	ToolGetCalendarEvents   = "get_calendar_events"
	ToolSearchContacts      = "search_contacts"
	ToolCreateContact       = "create_contact"
)

var kindNames = map[Kind]string{
	KindSendEmail:           ToolSendEmail,
	KindReadEmails:          ToolReadEmails,
	KindCreateCalendarEvent: ToolCreateCalendarEvent,
	KindGetCalendarEvents:   ToolGetCalendarEvents,
	KindSearchContacts:      ToolSearchContacts,
	KindCreateContact:       ToolCreateContact,
}

// ParseKind maps a tool name to its Kind. Names are case sensitive.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindUnknown, false
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Resource is the Graph resource label used in metrics and audit logs.
func (k Kind) Resource() string {
	switch k {
	case KindSendEmail, KindReadEmails:
		return instrumentation.ResourceMail
	case KindCreateCalendarEvent, KindGetCalendarEvents:
		return instrumentation.ResourceCalendar
	case KindSearchContacts, KindCreateContact:
		return instrumentation.ResourceContacts
	default:
		return instrumentation.ResourceOther
	}
}
