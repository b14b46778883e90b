package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used for all spans of this server.
const TracerName = "github.com/teemow/outlook-mcp"

// Span attribute keys.
const (
	SpanAttrTool          = "mcp.tool"
	SpanAttrGraphMethod   = "graph.method"
	SpanAttrGraphResource = "graph.resource"
	SpanAttrGraphPath     = "graph.path"
	SpanAttrAuthState     = "auth.state"
)

// StartToolSpan starts a server span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartGraphSpan starts a client span for a Microsoft Graph request.
// The span name uses the resource label; the full path is an attribute.
func StartGraphSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	resource := GraphResource(path)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "graph."+method+" "+resource,
		trace.WithAttributes(
			attribute.String(SpanAttrGraphMethod, method),
			attribute.String(SpanAttrGraphResource, resource),
			attribute.String(SpanAttrGraphPath, path),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// StartAuthSpan starts a span covering a device code sign-in.
func StartAuthSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "auth.device_code",
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
