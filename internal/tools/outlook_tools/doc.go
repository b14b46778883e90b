// Package outlook_tools exposes the Outlook mailbox as MCP tools.
//
// # Available Tools
//
// Mail:
//   - send_email: Send a message from the signed-in mailbox
//   - read_emails: List or search messages in a mail folder
//
// Calendar:
//   - create_calendar_event: Create an event (times are sent as UTC)
//   - get_calendar_events: List events inside a date range
//
// Contacts:
//   - search_contacts: Free-text search over personal contacts
//   - create_contact: Create a personal contact
//
// # Results
//
// Every call returns a single text content item holding a JSON envelope.
// Successful calls look like {"success": true, ...payload}; failed calls,
// including sign-in failures, look like {"success": false, "error": "..."}.
//
// # Authentication
//
// The first tool call signs in with the device code flow. The verification
// URL and user code are written to stderr; the call blocks until the code
// is redeemed. Listing tools never signs in.
package outlook_tools
