package outlook_tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/outlook-mcp/internal/outlook"
)

func TestEnvelope_SuccessInlinesPayload(t *testing.T) {
	env := Succeed(&outlook.SendEmailResult{Message: "Email sent successfully"})

	assert.Equal(t, "{\n  \"success\": true,\n  \"message\": \"Email sent successfully\"\n}", env.Text())
}

func TestEnvelope_Failure(t *testing.T) {
	env := Fail(errors.New("Unknown tool: delete_everything"))

	assert.Equal(t, "{\n  \"success\": false,\n  \"error\": \"Unknown tool: delete_everything\"\n}", env.Text())
}

func TestEnvelope_EmptyPayload(t *testing.T) {
	assert.JSONEq(t, `{"success":true}`, Succeed(nil).Text())
	assert.JSONEq(t, `{"success":true}`, Succeed(struct{}{}).Text())
}

func TestEnvelope_NestedPayload(t *testing.T) {
	env := Succeed(&outlook.ReadEmailsResult{Emails: []outlook.Email{{ID: "m1", Body: "<p>Hi & bye</p>"}}})
	text := env.Text()

	assert.Contains(t, text, "<p>Hi & bye</p>", "HTML is not escaped")

	var decoded struct {
		Success bool            `json:"success"`
		Emails  []outlook.Email `json:"emails"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.True(t, decoded.Success)
	require.Len(t, decoded.Emails, 1)
	assert.Equal(t, "m1", decoded.Emails[0].ID)
}

func TestEnvelope_NonObjectPayload(t *testing.T) {
	_, err := json.Marshal(Succeed([]string{"a"}))
	require.Error(t, err)

	text := Succeed([]string{"a"}).Text()
	assert.Contains(t, text, `"success": false`)
	assert.Contains(t, text, "not a JSON object")
}

func TestEnvelope_Result(t *testing.T) {
	ok := Succeed(nil).Result()
	assert.False(t, ok.IsError)
	require.Len(t, ok.Content, 1)
	text, isText := mcp.AsTextContent(ok.Content[0])
	require.True(t, isText)
	assert.Equal(t, "text", text.Type)

	failed := Fail(errors.New("boom")).Result()
	assert.True(t, failed.IsError)
	text, isText = mcp.AsTextContent(failed.Content[0])
	require.True(t, isText)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, text.Text)
}
