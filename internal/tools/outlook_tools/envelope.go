package outlook_tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Envelope is the result of one tool call. On success the payload's fields
// are inlined after "success"; on failure only "error" follows.
type Envelope struct {
	Success bool
	Error   string
	Payload any
}

// Succeed wraps an operation result. payload must encode to a JSON object
// or null.
func Succeed(payload any) Envelope {
	return Envelope{Success: true, Payload: payload}
}

// Fail wraps an error.
func Fail(err error) Envelope {
	return Envelope{Error: err.Error()}
}

// MarshalJSON writes "success" first, then the payload fields or "error".
func (e Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if !e.Success {
		msg, err := marshalNoEscape(e.Error)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`{"success":false,"error":`)
		buf.Write(msg)
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}

	buf.WriteString(`{"success":true`)
	if e.Payload != nil {
		payload, err := marshalNoEscape(e.Payload)
		if err != nil {
			return nil, err
		}
		switch {
		case bytes.Equal(payload, []byte("null")), bytes.Equal(payload, []byte("{}")):
		case len(payload) > 1 && payload[0] == '{':
			buf.WriteByte(',')
			buf.Write(payload[1 : len(payload)-1])
		default:
			return nil, fmt.Errorf("envelope payload %T is not a JSON object", e.Payload)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Text is the envelope as indented JSON, the form returned to MCP clients.
func (e Envelope) Text() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return Fail(fmt.Errorf("failed to encode result: %w", err)).Text()
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Result converts the envelope to an MCP tool result. Failed envelopes are
// flagged with IsError; the content is the envelope text either way.
func (e Envelope) Result() *mcp.CallToolResult {
	result := mcp.NewToolResultText(e.Text())
	result.IsError = !e.Success
	return result
}

// marshalNoEscape leaves <, > and & alone so HTML mail bodies stay readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
