package outlook

import (
	"context"

	"github.com/teemow/outlook-mcp/internal/graph"
)

// Mailbox runs mailbox operations for the signed-in user.
type Mailbox struct {
	client *graph.Client
}

// New creates a Mailbox on an authenticated Graph client.
func New(client *graph.Client) *Mailbox {
	return &Mailbox{client: client}
}

// unknownSender is used when a message has no from address or name.
const unknownSender = "Unknown"

// Profile is the signed-in user.
type Profile struct {
	DisplayName string `json:"displayName"`
	Mail        string `json:"mail"`
}

// Profile returns the signed-in user's name and address.
func (m *Mailbox) Profile(ctx context.Context) (*Profile, error) {
	var me graph.User
	if err := m.client.API("/me").Select("displayName", "mail", "userPrincipalName").Get(ctx, &me); err != nil {
		return nil, err
	}
	mail := me.Mail
	if mail == "" {
		mail = me.UserPrincipalName
	}
	return &Profile{DisplayName: me.DisplayName, Mail: mail}, nil
}
