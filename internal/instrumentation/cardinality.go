package instrumentation

import "strings"

// Graph resource labels. Raw request paths carry message and event IDs, so
// metrics and span names use these instead.
const (
	ResourceMail     = "mail"
	ResourceCalendar = "calendar"
	ResourceContacts = "contacts"
	ResourceUser     = "user"
	ResourceOther    = "other"
)

// GraphResource reduces a Graph path to a low-cardinality resource label.
//
//	GraphResource("/me/mailFolders/inbox/messages") // "mail"
//	GraphResource("/me/sendMail")                   // "mail"
//	GraphResource("/me/events")                     // "calendar"
//	GraphResource("/me/contacts")                   // "contacts"
func GraphResource(path string) string {
	p := strings.ToLower(strings.SplitN(path, "?", 2)[0])
	switch {
	case strings.Contains(p, "/messages"), strings.Contains(p, "/mailfolders"), strings.HasSuffix(p, "/sendmail"):
		return ResourceMail
	case strings.Contains(p, "/events"), strings.Contains(p, "/calendar"):
		return ResourceCalendar
	case strings.Contains(p, "/contacts"):
		return ResourceContacts
	case p == "/me" || strings.HasPrefix(p, "/users"):
		return ResourceUser
	default:
		return ResourceOther
	}
}
