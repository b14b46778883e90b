package outlook_tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/teemow/outlook-mcp/internal/outlook"
)

// Argument defaults.
const (
	DefaultFolderID      = "inbox"
	DefaultReadEmailsTop = 10
	DefaultEventsTop     = 25
	DefaultContactsTop   = 10
	DefaultIsHTML        = false
)

// SendEmailArgs are the arguments of send_email.
type SendEmailArgs struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

func (a SendEmailArgs) input() outlook.SendEmailInput {
	return outlook.SendEmailInput{To: a.To, Subject: a.Subject, Body: a.Body, IsHTML: a.IsHTML}
}

// ReadEmailsArgs are the arguments of read_emails.
type ReadEmailsArgs struct {
	FolderID string
	Top      int
	Search   string
}

func (a ReadEmailsArgs) input() outlook.ReadEmailsInput {
	return outlook.ReadEmailsInput{FolderID: a.FolderID, Top: a.Top, Search: a.Search}
}

// CreateCalendarEventArgs are the arguments of create_calendar_event.
type CreateCalendarEventArgs struct {
	Subject   string
	Start     string
	End       string
	Attendees []string
	Body      string
	Location  string
}

func (a CreateCalendarEventArgs) input() outlook.CreateEventInput {
	return outlook.CreateEventInput{
		Subject:   a.Subject,
		Start:     a.Start,
		End:       a.End,
		Attendees: a.Attendees,
		Body:      a.Body,
		Location:  a.Location,
	}
}

// GetCalendarEventsArgs are the arguments of get_calendar_events.
type GetCalendarEventsArgs struct {
	StartDate string
	EndDate   string
	Top       int
}

func (a GetCalendarEventsArgs) input() outlook.GetEventsInput {
	return outlook.GetEventsInput{StartDate: a.StartDate, EndDate: a.EndDate, Top: a.Top}
}

// SearchContactsArgs are the arguments of search_contacts.
type SearchContactsArgs struct {
	SearchTerm string
	Top        int
}

func (a SearchContactsArgs) input() outlook.SearchContactsInput {
	return outlook.SearchContactsInput{Query: a.SearchTerm, Top: a.Top}
}

// CreateContactArgs are the arguments of create_contact.
type CreateContactArgs struct {
	DisplayName string
	Email       string
	Phone       string
	Company     string
	JobTitle    string
}

func (a CreateContactArgs) input() outlook.CreateContactInput {
	return outlook.CreateContactInput{
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Phone:       a.Phone,
		Company:     a.Company,
		JobTitle:    a.JobTitle,
	}
}

// ArgumentError reports an argument of the wrong JSON type or out of
// range. Missing arguments are not errors; they take their default and
// Graph decides.
type ArgumentError struct {
	Name string
	Want string
	Got  any
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: expected %s, got %T", e.Name, e.Want, e.Got)
}

// argReader pulls typed values out of an argument map, keeping the first
// type error.
type argReader struct {
	args map[string]any
	err  error
}

func (r *argReader) fail(name, want string, got any) {
	if r.err == nil {
		r.err = &ArgumentError{Name: name, Want: want, Got: got}
	}
}

func (r *argReader) lookup(name string) (any, bool) {
	v, ok := r.args[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *argReader) stringArg(name, def string) string {
	v, ok := r.lookup(name)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		r.fail(name, "string", v)
		return def
	}
	return s
}

func (r *argReader) boolArg(name string, def bool) bool {
	v, ok := r.lookup(name)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(name, "boolean", v)
		return def
	}
	return b
}

// intArg reads a count such as top. Zero and negative values are rejected
// instead of letting Graph fall back to its own page size.
func (r *argReader) intArg(name string, def int) int {
	v, ok := r.lookup(name)
	if !ok {
		return def
	}
	var i int
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			r.fail(name, "integer", v)
			return def
		}
		i = int(n)
	case int:
		i = n
	case int64:
		i = int(n)
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			r.fail(name, "integer", v)
			return def
		}
		i = int(parsed)
	default:
		r.fail(name, "integer", v)
		return def
	}
	if i < 1 {
		r.fail(name, "positive integer", v)
		return def
	}
	return i
}

// listArg accepts a single string or a list of strings. A single string
// becomes a one-element list. Missing lists are empty, never nil.
func (r *argReader) listArg(name string) []string {
	v, ok := r.lookup(name)
	if !ok {
		return []string{}
	}
	switch l := v.(type) {
	case string:
		return []string{l}
	case []string:
		return append([]string{}, l...)
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				r.fail(name, "string or list of strings", item)
				return []string{}
			}
			out = append(out, s)
		}
		return out
	}
	r.fail(name, "string or list of strings", v)
	return []string{}
}

func decodeSendEmail(args map[string]any) (SendEmailArgs, error) {
	r := &argReader{args: args}
	a := SendEmailArgs{
		To:      r.listArg("to"),
		Subject: r.stringArg("subject", ""),
		Body:    r.stringArg("body", ""),
		IsHTML:  r.boolArg("isHtml", DefaultIsHTML),
	}
	return a, r.err
}

func decodeReadEmails(args map[string]any) (ReadEmailsArgs, error) {
	r := &argReader{args: args}
	a := ReadEmailsArgs{
		FolderID: r.stringArg("folderId", DefaultFolderID),
		Top:      r.intArg("top", DefaultReadEmailsTop),
		Search:   r.stringArg("search", ""),
	}
	return a, r.err
}

func decodeCreateCalendarEvent(args map[string]any) (CreateCalendarEventArgs, error) {
	r := &argReader{args: args}
	a := CreateCalendarEventArgs{
		Subject:   r.stringArg("subject", ""),
		Start:     r.stringArg("start", ""),
		End:       r.stringArg("end", ""),
		Attendees: r.listArg("attendees"),
		Body:      r.stringArg("body", ""),
		Location:  r.stringArg("location", ""),
	}
	return a, r.err
}

func decodeGetCalendarEvents(args map[string]any) (GetCalendarEventsArgs, error) {
	r := &argReader{args: args}
	a := GetCalendarEventsArgs{
		StartDate: r.stringArg("startDate", ""),
		EndDate:   r.stringArg("endDate", ""),
		Top:       r.intArg("top", DefaultEventsTop),
	}
	return a, r.err
}

func decodeSearchContacts(args map[string]any) (SearchContactsArgs, error) {
	r := &argReader{args: args}
	a := SearchContactsArgs{
		SearchTerm: r.stringArg("searchTerm", ""),
		Top:        r.intArg("top", DefaultContactsTop),
	}
	return a, r.err
}

func decodeCreateContact(args map[string]any) (CreateContactArgs, error) {
	r := &argReader{args: args}
	a := CreateContactArgs{
		DisplayName: r.stringArg("displayName", ""),
		Email:       r.stringArg("email", ""),
		Phone:       r.stringArg("phone", ""),
		Company:     r.stringArg("company", ""),
		JobTitle:    r.stringArg("jobTitle", ""),
	}
	return a, r.err
}
