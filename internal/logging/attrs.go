package logging

import (
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyClientID  = "client_id"
	KeyTenantID  = "tenant_id"
	KeySource    = "source"
	KeyState     = "state"
	KeyPath      = "path"
)

// Status values for consistent logging.
// Duplicated from the instrumentation package, which imports logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// redactKeep is how many leading characters of an identifier survive RedactID.
const redactKeep = 10

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Path returns a slog attribute for a Graph resource path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits from output.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// ClientID returns a redacted client id attribute.
func ClientID(id string) slog.Attr {
	return slog.String(KeyClientID, RedactID(id))
}

// TenantID returns a redacted tenant id attribute.
func TenantID(id string) slog.Attr {
	return slog.String(KeyTenantID, RedactID(id))
}

// RedactID shortens an identifier to its first characters for logging.
// Short identifiers are returned unchanged, empty ones as "<missing>".
func RedactID(id string) string {
	if id == "" {
		return "<missing>"
	}
	if len(id) <= redactKeep {
		return id
	}
	return id[:redactKeep] + "..."
}

// SanitizeToken returns a length indicator without exposing token content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
