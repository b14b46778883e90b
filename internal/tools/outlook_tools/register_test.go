package outlook_tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/outlook-mcp/internal/auth"
	"github.com/teemow/outlook-mcp/internal/config"
	"github.com/teemow/outlook-mcp/internal/graph"
	"github.com/teemow/outlook-mcp/internal/logging"
	"github.com/teemow/outlook-mcp/internal/server"
)

type instantFlow struct{ calls int }

func (f *instantFlow) DeviceAuth(context.Context) (*oauth2.DeviceAuthResponse, error) {
	f.calls++
	return &oauth2.DeviceAuthResponse{UserCode: "CODE", VerificationURI: "https://microsoft.com/devicelogin"}, nil
}

func (f *instantFlow) Poll(context.Context, *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "token", Expiry: time.Now().Add(time.Hour)}, nil
}

func newRegisteredServer(t *testing.T, lookup config.LookupFunc, flow auth.DeviceFlow, graphURL string) *mcpserver.MCPServer {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), config.NewResolver(config.Flags{}, lookup),
		server.WithLogger(logging.Discard()),
		server.WithSessionOptions(
			auth.WithDeviceFlow(flow),
			auth.WithPrompt(func(context.Context, auth.Challenge) error { return nil }),
			auth.WithGraphOptions(graph.WithBaseURL(graphURL)),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("outlook-mcp-test", "test", mcpserver.WithToolCapabilities(true))
	RegisterOutlookTools(s, sc)
	return s
}

func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tools := s.ListTools()
	tool, ok := tools[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestRegisterOutlookTools_ListsSixTools(t *testing.T) {
	s := newRegisteredServer(t, func(string) (string, bool) { return "", false }, &instantFlow{}, "http://127.0.0.1:0")

	tools := s.ListTools()
	assert.Len(t, tools, 6)
	for _, tool := range Catalog() {
		assert.Contains(t, tools, tool.Name)
	}
}

func TestRegisterOutlookTools_PlaceholderIdentity(t *testing.T) {
	flow := &instantFlow{}
	s := newRegisteredServer(t, func(string) (string, bool) { return "", false }, flow, "http://127.0.0.1:0")

	result := callTool(t, s, ToolReadEmails, nil)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "configuration error")
	assert.Contains(t, resultText(t, result), `"success": false`)
	assert.Equal(t, 0, flow.calls)
}

func TestRegisterOutlookTools_SignsInOnceAndCallsGraph(t *testing.T) {
	graphSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/me" {
			_, _ = w.Write([]byte(`{"displayName":"Adele Vance","mail":"adele@contoso.com"}`))
			return
		}
		_, _ = w.Write([]byte(`{"value":[]}`))
	}))
	t.Cleanup(graphSrv.Close)

	lookup := func(key string) (string, bool) {
		switch key {
		case "CLIENT_ID":
			return "11111111-2222-3333-4444-555555555555", true
		case "TENANT_ID":
			return "contoso.onmicrosoft.com", true
		}
		return "", false
	}
	flow := &instantFlow{}
	s := newRegisteredServer(t, lookup, flow, graphSrv.URL)

	first := callTool(t, s, ToolReadEmails, nil)
	second := callTool(t, s, ToolSearchContacts, map[string]any{"searchTerm": "adele"})

	assert.False(t, first.IsError)
	assert.JSONEq(t, `{"success":true,"emails":[]}`, resultText(t, first))
	assert.JSONEq(t, `{"success":true,"contacts":[]}`, resultText(t, second))
	assert.Equal(t, 1, flow.calls)
}
