package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/outlook-mcp/internal/server"
)

// Resource URIs.
const (
	SessionURI = "outlook://session"
	ProfileURI = "outlook://profile"
)

// ErrNotSignedIn is returned by the profile resource before the first
// successful tool call.
var ErrNotSignedIn = errors.New("not signed in to Microsoft Graph yet; call any tool to start the device code sign-in")

// RegisterSessionResources registers the session and profile resources.
// Neither one starts a sign-in.
func RegisterSessionResources(s *mcpserver.MCPServer, sc *server.ServerContext) {
	sessionResource := mcp.NewResource(
		SessionURI,
		"Outlook Session",
		mcp.WithResourceDescription("Sign-in state, redacted app registration and requested Graph scopes"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(sessionResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSession(request, sc)
	})

	profileResource := mcp.NewResource(
		ProfileURI,
		"Signed-in User",
		mcp.WithResourceDescription("Display name and address of the signed-in Microsoft 365 user"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleProfile(ctx, request, sc)
	})
}

func handleSession(request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	return jsonContents(request.Params.URI, sc.Status())
}

func handleProfile(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	mailbox := sc.CurrentMailbox()
	if mailbox == nil {
		return nil, ErrNotSignedIn
	}

	profile, err := mailbox.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return jsonContents(request.Params.URI, profile)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
