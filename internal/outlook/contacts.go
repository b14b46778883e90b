package outlook

import (
	"context"

	"github.com/teemow/outlook-mcp/internal/graph"
)

// SearchContactsInput is a free-text contact search.
type SearchContactsInput struct {
	Query string
	Top   int
}

// ContactItem is a flattened contact.
type ContactItem struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	EmailAddresses []string `json:"emailAddresses"`
	BusinessPhones []string `json:"businessPhones"`
	MobilePhone    *string  `json:"mobilePhone"`
	JobTitle       string   `json:"jobTitle"`
	CompanyName    string   `json:"companyName"`
}

// SearchContactsResult lists matching contacts.
type SearchContactsResult struct {
	Contacts []ContactItem `json:"contacts"`
}

var contactFields = []string{"id", "displayName", "emailAddresses", "businessPhones", "mobilePhone", "jobTitle", "companyName"}

// SearchContacts searches the user's personal contacts.
func (m *Mailbox) SearchContacts(ctx context.Context, in SearchContactsInput) (*SearchContactsResult, error) {
	var page graph.Collection[graph.Contact]
	err := m.client.API("/me/contacts").
		Search(in.Query).
		Select(contactFields...).
		Top(in.Top).
		Get(ctx, &page)
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactItem, 0, len(page.Value))
	for _, c := range page.Value {
		phones := c.BusinessPhones
		if phones == nil {
			phones = []string{}
		}
		contacts = append(contacts, ContactItem{
			ID:             c.ID,
			DisplayName:    c.DisplayName,
			EmailAddresses: addresses(c.EmailAddresses),
			BusinessPhones: phones,
			MobilePhone:    c.MobilePhone,
			JobTitle:       c.JobTitle,
			CompanyName:    c.CompanyName,
		})
	}
	return &SearchContactsResult{Contacts: contacts}, nil
}

// CreateContactInput describes a new personal contact.
type CreateContactInput struct {
	DisplayName string
	Email       string
	Phone       string
	Company     string
	JobTitle    string
}

// CreatedContact is the summary returned for a new contact.
type CreatedContact struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	EmailAddresses []string `json:"emailAddresses"`
}

// CreateContactResult wraps the created contact.
type CreateContactResult struct {
	Contact CreatedContact `json:"contact"`
}

// CreateContact adds a contact to the user's default contacts folder.
// Email and phone become one-element lists when set and empty lists otherwise.
func (m *Mailbox) CreateContact(ctx context.Context, in CreateContactInput) (*CreateContactResult, error) {
	contact := graph.Contact{
		DisplayName:    in.DisplayName,
		EmailAddresses: []graph.EmailAddress{},
		BusinessPhones: []string{},
		CompanyName:    in.Company,
		JobTitle:       in.JobTitle,
	}
	if in.Email != "" {
		contact.EmailAddresses = append(contact.EmailAddresses, graph.EmailAddress{Address: in.Email})
	}
	if in.Phone != "" {
		contact.BusinessPhones = append(contact.BusinessPhones, in.Phone)
	}

	var created graph.Contact
	if err := m.client.API("/me/contacts").Post(ctx, contact, &created); err != nil {
		return nil, err
	}

	return &CreateContactResult{Contact: CreatedContact{
		ID:             created.ID,
		DisplayName:    created.DisplayName,
		EmailAddresses: addresses(created.EmailAddresses),
	}}, nil
}

func addresses(in []graph.EmailAddress) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		out = append(out, e.Address)
	}
	return out
}
