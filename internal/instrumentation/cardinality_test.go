package instrumentation

import "testing"

func TestGraphResource(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/me/mailFolders/inbox/messages", ResourceMail},
		{"/me/mailFolders/sentitems/messages?$top=5", ResourceMail},
		{"/me/messages/AAMkAG", ResourceMail},
		{"/me/sendMail", ResourceMail},
		{"/me/events", ResourceCalendar},
		{"/me/calendar/events", ResourceCalendar},
		{"/me/contacts", ResourceContacts},
		{"/me", ResourceUser},
		{"/users/abc", ResourceUser},
		{"/drives", ResourceOther},
		{"", ResourceOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GraphResource(tt.path); got != tt.want {
				t.Errorf("GraphResource(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
