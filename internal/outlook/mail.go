package outlook

import (
	"context"
	"net/url"

	"github.com/teemow/outlook-mcp/internal/graph"
)

// SendEmailInput is a message to send from the user's mailbox.
type SendEmailInput struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// SendEmailResult is returned after Graph accepted the message.
type SendEmailResult struct {
	Message string `json:"message"`
}

// SendEmail sends a message and saves it to Sent Items.
func (m *Mailbox) SendEmail(ctx context.Context, in SendEmailInput) (*SendEmailResult, error) {
	contentType := graph.ContentTypeText
	if in.IsHTML {
		contentType = graph.ContentTypeHTML
	}

	recipients := make([]graph.Recipient, 0, len(in.To))
	for _, addr := range in.To {
		recipients = append(recipients, graph.Recipient{EmailAddress: graph.EmailAddress{Address: addr}})
	}

	req := graph.SendMailRequest{
		Message: graph.OutgoingMessage{
			Subject:      in.Subject,
			Body:         graph.ItemBody{ContentType: contentType, Content: in.Body},
			ToRecipients: recipients,
		},
		SaveToSentItems: true,
	}
	if err := m.client.API("/me/sendMail").Post(ctx, req, nil); err != nil {
		return nil, err
	}
	return &SendEmailResult{Message: "Email sent successfully"}, nil
}

// ReadEmailsInput selects messages from a mail folder.
type ReadEmailsInput struct {
	FolderID string
	Top      int
	Search   string
}

// Email is a flattened message.
type Email struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	From             string `json:"from"`
	FromName         string `json:"fromName"`
	ReceivedDateTime string `json:"receivedDateTime"`
	Body             string `json:"body"`
	IsRead           bool   `json:"isRead"`
	Importance       string `json:"importance"`
}

// ReadEmailsResult lists messages newest first.
type ReadEmailsResult struct {
	Emails []Email `json:"emails"`
}

var messageFields = []string{"id", "subject", "from", "receivedDateTime", "body", "isRead", "importance"}

// ReadEmails lists messages in a folder. Folder may be an ID or a well-known
// name such as "inbox" or "sentitems".
func (m *Mailbox) ReadEmails(ctx context.Context, in ReadEmailsInput) (*ReadEmailsResult, error) {
	req := m.client.API("/me/mailFolders/" + url.PathEscape(in.FolderID) + "/messages").
		Select(messageFields...).
		Top(in.Top)
	if in.Search != "" {
		// Graph rejects $orderby combined with $search on messages;
		// search results come back newest first anyway.
		req.Search(in.Search)
	} else {
		req.OrderBy("receivedDateTime desc")
	}

	var page graph.Collection[graph.Message]
	if err := req.Get(ctx, &page); err != nil {
		return nil, err
	}

	emails := make([]Email, 0, len(page.Value))
	for _, msg := range page.Value {
		emails = append(emails, flattenMessage(msg))
	}
	return &ReadEmailsResult{Emails: emails}, nil
}

func flattenMessage(msg graph.Message) Email {
	e := Email{
		ID:               msg.ID,
		Subject:          msg.Subject,
		From:             unknownSender,
		FromName:         unknownSender,
		ReceivedDateTime: msg.ReceivedDateTime,
		IsRead:           msg.IsRead,
		Importance:       msg.Importance,
	}
	if msg.From != nil {
		if msg.From.EmailAddress.Address != "" {
			e.From = msg.From.EmailAddress.Address
		}
		if msg.From.EmailAddress.Name != "" {
			e.FromName = msg.From.EmailAddress.Name
		}
	}
	if msg.Body != nil {
		e.Body = msg.Body.Content
	}
	return e
}
