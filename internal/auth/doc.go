// Package auth signs the server into Microsoft Graph with the OAuth 2.0
// device authorization grant and hands out an authenticated Graph client.
//
// A Session authenticates at most once. The first call to Session.Client
// requests a device code, shows the verification URL and user code through a
// PromptFunc, and blocks until the user completes sign-in in a browser or the
// code expires. The resulting access token is used as-is for the rest of the
// session: it is never refreshed, so a long-running server needs a restart
// once the token expires (Graph then answers 401 on every call).
package auth
