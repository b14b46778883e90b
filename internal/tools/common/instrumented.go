package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/outlook-mcp/internal/instrumentation"
	"github.com/teemow/outlook-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// errToolResult marks invocations whose result carried IsError.
var errToolResult = errors.New("tool returned an error result")

// InstrumentedToolHandler wraps a tool handler with a tracing span, the
// tool invocation metrics and an audit log entry. resource is the Graph
// resource label the tool works on.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("send_email", instrumentation.ResourceMail, sc, handler))
func InstrumentedToolHandler(
	toolName string,
	resource string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithArguments(request.GetArguments()).
			WithResource(resource).
			WithSpanContext(ctx)

		result, err := handler(ctx, request)
		duration := time.Since(invocation.StartTime)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.CompleteWithError(resultError(result))
			instrumentation.SetSpanError(span, resultError(result))
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		// Both are nil-safe.
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// resultError extracts the message of an error result. Handlers in this
// module put a JSON envelope in the text content; it is not parsed here.
func resultError(result *mcp.CallToolResult) error {
	if len(result.Content) > 0 {
		if text, ok := mcp.AsTextContent(result.Content[0]); ok && text.Text != "" {
			return errors.New(text.Text)
		}
	}
	return errToolResult
}
