package outlook

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/outlook-mcp/internal/graph"
)

// eventTimeZone is attached to every event time sent to Graph. Callers'
// offsets are not interpreted.
const eventTimeZone = "UTC"

// CreateEventInput describes a new calendar event.
type CreateEventInput struct {
	Subject   string
	Start     string
	End       string
	Attendees []string
	Body      string
	Location  string
}

// CreatedEvent is the summary returned for a new event.
type CreatedEvent struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Start   string `json:"start"`
	End     string `json:"end"`
	WebLink string `json:"webLink"`
}

// CreateEventResult wraps the created event.
type CreateEventResult struct {
	Event CreatedEvent `json:"event"`
}

// CreateCalendarEvent creates an event in the user's default calendar.
func (m *Mailbox) CreateCalendarEvent(ctx context.Context, in CreateEventInput) (*CreateEventResult, error) {
	attendees := make([]graph.Attendee, 0, len(in.Attendees))
	for _, addr := range in.Attendees {
		attendees = append(attendees, graph.Attendee{
			EmailAddress: graph.EmailAddress{Address: addr, Name: addr},
		})
	}

	event := graph.Event{
		Subject:   in.Subject,
		Body:      &graph.ItemBody{ContentType: graph.ContentTypeHTML, Content: in.Body},
		Start:     &graph.DateTimeTimeZone{DateTime: in.Start, TimeZone: eventTimeZone},
		End:       &graph.DateTimeTimeZone{DateTime: in.End, TimeZone: eventTimeZone},
		Location:  &graph.Location{DisplayName: in.Location},
		Attendees: attendees,
	}

	var created graph.Event
	if err := m.client.API("/me/events").Post(ctx, event, &created); err != nil {
		return nil, err
	}

	return &CreateEventResult{Event: CreatedEvent{
		ID:      created.ID,
		Subject: created.Subject,
		Start:   dateTime(created.Start),
		End:     dateTime(created.End),
		WebLink: created.WebLink,
	}}, nil
}

// GetEventsInput bounds an event listing.
type GetEventsInput struct {
	StartDate string
	EndDate   string
	Top       int
}

// EventItem is a flattened calendar event.
type EventItem struct {
	ID        string   `json:"id"`
	Subject   string   `json:"subject"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Location  string   `json:"location"`
	Organizer string   `json:"organizer"`
	Attendees []string `json:"attendees"`
}

// GetEventsResult lists events by start time.
type GetEventsResult struct {
	Events []EventItem `json:"events"`
}

var eventFields = []string{"id", "subject", "start", "end", "location", "attendees", "organizer"}

// GetCalendarEvents lists events starting at or after StartDate and ending
// at or before EndDate, earliest first.
func (m *Mailbox) GetCalendarEvents(ctx context.Context, in GetEventsInput) (*GetEventsResult, error) {
	filter := fmt.Sprintf("start/dateTime ge '%s' and end/dateTime le '%s'",
		odataString(in.StartDate), odataString(in.EndDate))

	var page graph.Collection[graph.Event]
	err := m.client.API("/me/events").
		Filter(filter).
		Select(eventFields...).
		OrderBy("start/dateTime").
		Top(in.Top).
		Get(ctx, &page)
	if err != nil {
		return nil, err
	}

	events := make([]EventItem, 0, len(page.Value))
	for _, ev := range page.Value {
		events = append(events, flattenEvent(ev))
	}
	return &GetEventsResult{Events: events}, nil
}

func flattenEvent(ev graph.Event) EventItem {
	item := EventItem{
		ID:        ev.ID,
		Subject:   ev.Subject,
		Start:     dateTime(ev.Start),
		End:       dateTime(ev.End),
		Attendees: make([]string, 0, len(ev.Attendees)),
	}
	if ev.Location != nil {
		item.Location = ev.Location.DisplayName
	}
	if ev.Organizer != nil {
		item.Organizer = ev.Organizer.EmailAddress.Address
	}
	for _, a := range ev.Attendees {
		item.Attendees = append(item.Attendees, a.EmailAddress.Address)
	}
	return item
}

func dateTime(t *graph.DateTimeTimeZone) string {
	if t == nil {
		return ""
	}
	return t.DateTime
}

// odataString escapes s for use inside a single-quoted OData literal.
func odataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
