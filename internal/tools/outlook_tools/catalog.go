package outlook_tools

import "github.com/mark3labs/mcp-go/mcp"

// stringOrList widens a string property to also accept a list of strings.
func stringOrList() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = []string{"string", "array"}
		schema["items"] = map[string]any{"type": "string"}
	}
}

// emptyListDefault declares [] as the default of an array property.
func emptyListDefault() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["default"] = []string{}
	}
}

// Catalog returns the six tool definitions in a fixed order. It has no
// side effects and never signs in.
func Catalog() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolSendEmail,
			mcp.WithDescription("Send an email through Outlook"),
			mcp.WithTitleAnnotation("Send email"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("to",
				mcp.Required(),
				mcp.Description("Recipient email address(es)"),
				stringOrList(),
			),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Email subject"),
			),
			mcp.WithString("body",
				mcp.Required(),
				mcp.Description("Email body content"),
			),
			mcp.WithBoolean("isHtml",
				mcp.Description("Whether the body is HTML formatted"),
				mcp.DefaultBool(DefaultIsHTML),
			),
		),
		mcp.NewTool(ToolReadEmails,
			mcp.WithDescription("Read and search emails from Outlook"),
			mcp.WithTitleAnnotation("Read emails"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("folderId",
				mcp.Description("Folder to read from (inbox, sentitems, drafts or a folder id)"),
				mcp.DefaultString(DefaultFolderID),
			),
			mcp.WithNumber("top",
				mcp.Description("Number of emails to retrieve"),
				mcp.DefaultNumber(DefaultReadEmailsTop),
				mcp.Min(1),
			),
			mcp.WithString("search",
				mcp.Description("Search query to filter emails"),
			),
		),
		mcp.NewTool(ToolCreateCalendarEvent,
			mcp.WithDescription("Create a new calendar event in Outlook. Times are stored as UTC."),
			mcp.WithTitleAnnotation("Create calendar event"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start date/time (ISO 8601 format)"),
			),
			mcp.WithString("end",
				mcp.Required(),
				mcp.Description("End date/time (ISO 8601 format)"),
			),
			mcp.WithArray("attendees",
				mcp.Description("List of attendee email addresses"),
				mcp.WithStringItems(),
				emptyListDefault(),
			),
			mcp.WithString("body",
				mcp.Description("Event description"),
				mcp.DefaultString(""),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
				mcp.DefaultString(""),
			),
		),
		mcp.NewTool(ToolGetCalendarEvents,
			mcp.WithDescription("Retrieve calendar events from Outlook"),
			mcp.WithTitleAnnotation("Get calendar events"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("startDate",
				mcp.Required(),
				mcp.Description("Start date for event range (ISO 8601 format)"),
			),
			mcp.WithString("endDate",
				mcp.Required(),
				mcp.Description("End date for event range (ISO 8601 format)"),
			),
			mcp.WithNumber("top",
				mcp.Description("Maximum number of events to retrieve"),
				mcp.DefaultNumber(DefaultEventsTop),
				mcp.Min(1),
			),
		),
		mcp.NewTool(ToolSearchContacts,
			mcp.WithDescription("Search for contacts in Outlook"),
			mcp.WithTitleAnnotation("Search contacts"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("searchTerm",
				mcp.Required(),
				mcp.Description("Search term to find contacts"),
			),
			mcp.WithNumber("top",
				mcp.Description("Maximum number of contacts to return"),
				mcp.DefaultNumber(DefaultContactsTop),
				mcp.Min(1),
			),
		),
		mcp.NewTool(ToolCreateContact,
			mcp.WithDescription("Create a new contact in Outlook"),
			mcp.WithTitleAnnotation("Create contact"),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(false),
			mcp.WithOpenWorldHintAnnotation(true),
			mcp.WithString("displayName",
				mcp.Required(),
				mcp.Description("Contact display name"),
			),
			mcp.WithString("email",
				mcp.Description("Contact email address"),
			),
			mcp.WithString("phone",
				mcp.Description("Contact phone number"),
				mcp.DefaultString(""),
			),
			mcp.WithString("company",
				mcp.Description("Contact company name"),
				mcp.DefaultString(""),
			),
			mcp.WithString("jobTitle",
				mcp.Description("Contact job title"),
				mcp.DefaultString(""),
			),
		),
	}
}
