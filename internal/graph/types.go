package graph

// Collection is a page of a Graph collection response.
type Collection[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink,omitempty"`
}

// EmailAddress is Graph's emailAddress resource.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Recipient wraps an EmailAddress.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// ItemBody is the body of a message or event.
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Body content types.
const (
	ContentTypeText = "Text"
	ContentTypeHTML = "HTML"
)

// DateTimeTimeZone is a wall-clock time plus the zone it is expressed in.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Location is an event location.
type Location struct {
	DisplayName string `json:"displayName"`
}

// Attendee is an event attendee.
type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type,omitempty"`
}

// Message is the subset of a Graph message the server reads.
type Message struct {
	ID               string     `json:"id"`
	Subject          string     `json:"subject"`
	From             *Recipient `json:"from,omitempty"`
	ReceivedDateTime string     `json:"receivedDateTime"`
	Body             *ItemBody  `json:"body,omitempty"`
	IsRead           bool       `json:"isRead"`
	Importance       string     `json:"importance"`
}

// OutgoingMessage is the message payload of /me/sendMail.
type OutgoingMessage struct {
	Subject      string      `json:"subject"`
	Body         ItemBody    `json:"body"`
	ToRecipients []Recipient `json:"toRecipients"`
}

// SendMailRequest is the body of POST /me/sendMail.
type SendMailRequest struct {
	Message         OutgoingMessage `json:"message"`
	SaveToSentItems bool            `json:"saveToSentItems"`
}

// Event is a calendar event. The same shape is sent on create.
type Event struct {
	ID        string            `json:"id,omitempty"`
	Subject   string            `json:"subject"`
	Body      *ItemBody         `json:"body,omitempty"`
	Start     *DateTimeTimeZone `json:"start,omitempty"`
	End       *DateTimeTimeZone `json:"end,omitempty"`
	Location  *Location         `json:"location,omitempty"`
	Attendees []Attendee        `json:"attendees"`
	Organizer *Recipient        `json:"organizer,omitempty"`
	WebLink   string            `json:"webLink,omitempty"`
}

// Contact is a personal contact. The same shape is sent on create.
type Contact struct {
	ID             string         `json:"id,omitempty"`
	DisplayName    string         `json:"displayName"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
	BusinessPhones []string       `json:"businessPhones"`
	MobilePhone    *string        `json:"mobilePhone,omitempty"`
	JobTitle       string         `json:"jobTitle"`
	CompanyName    string         `json:"companyName"`
}

// User is the signed-in user as returned by /me.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}
