// Package resources provides read-only MCP resources describing the
// Microsoft Graph session. Reading them never triggers a sign-in.
package resources
