package outlook_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/outlook-mcp/internal/server"
	"github.com/teemow/outlook-mcp/internal/tools/common"
)

// ServerContextSource signs in through the server context.
func ServerContextSource(sc *server.ServerContext) MailboxSource {
	return func(ctx context.Context) (Mailbox, error) {
		mb, err := sc.Mailbox(ctx)
		if err != nil {
			return nil, err
		}
		return mb, nil
	}
}

// RegisterOutlookTools registers the six mailbox tools with the MCP server.
func RegisterOutlookTools(s *mcpserver.MCPServer, sc *server.ServerContext) *Dispatcher {
	d := NewDispatcher(ServerContextSource(sc), WithLogger(sc.Logger()))
	for _, tool := range Catalog() {
		kind, _ := ParseKind(tool.Name)
		s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, kind.Resource(), sc, d.Handler(tool.Name)))
	}
	return d
}

// Handler adapts Dispatch to an mcp-go tool handler for one tool name.
func (d *Dispatcher) Handler(name string) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Dispatch(ctx, name, request.GetArguments()).Result(), nil
	}
}
