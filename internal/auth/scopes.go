package auth

// Scopes are the delegated Graph permissions requested at sign-in.
var Scopes = []string{
	"https://graph.microsoft.com/Mail.ReadWrite",
	"https://graph.microsoft.com/Mail.Send",
	"https://graph.microsoft.com/Calendars.ReadWrite",
	"https://graph.microsoft.com/Contacts.ReadWrite",
	"https://graph.microsoft.com/User.Read",
}
