package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/outlook-mcp/internal/config"
	"github.com/teemow/outlook-mcp/internal/instrumentation"
	"github.com/teemow/outlook-mcp/internal/server"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(),
		config.NewResolver(config.Flags{}, func(string) (string, bool) { return "", false }))
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// toolInvocations sums mcp_tool_invocations_total by status.
func toolInvocations(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	byStatus := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("status")
				byStatus[status.AsString()] += dp.Value
			}
		}
	}
	return byStatus
}

func instrumentedContext(t *testing.T) (*server.ServerContext, *sdkmetric.ManualReader, *bytes.Buffer) {
	t.Helper()
	sc := newServerContext(t)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetMetrics(metrics)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	return sc, reader, &buf
}

func lastAuditRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var record map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &record); err != nil {
		t.Fatalf("audit record is not JSON: %v", err)
	}
	return record
}

func TestInstrumentedToolHandler_WithoutInstrumentation(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	}

	result, err := InstrumentedToolHandler("read_emails", instrumentation.ResourceMail, sc, handler)(context.Background(), newRequest(nil))
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil {
		t.Error("expected result, got nil")
	}
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc, reader, buf := instrumentedContext(t)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(`{"success": true}`), nil
	}
	wrapped := InstrumentedToolHandler("read_emails", instrumentation.ResourceMail, sc, handler)

	if _, err := wrapped(context.Background(), newRequest(map[string]any{"top": 5.0, "folderId": "inbox"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := toolInvocations(t, reader); got["success"] != 1 || got["error"] != 0 {
		t.Errorf("invocations = %v, want one success", got)
	}

	record := lastAuditRecord(t, buf)
	if record["msg"] != "tool_executed" {
		t.Errorf("msg = %v, want tool_executed", record["msg"])
	}
	if record["tool"] != "read_emails" || record["resource"] != "mail" {
		t.Errorf("unexpected audit record: %v", record)
	}
	if _, ok := record["arguments"]; ok {
		t.Error("argument names should not be logged by default")
	}
}

func TestInstrumentedToolHandler_ErrorResult(t *testing.T) {
	sc, reader, buf := instrumentedContext(t)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Unknown tool: nope"), nil
	}
	result, err := InstrumentedToolHandler("nope", instrumentation.ResourceOther, sc, handler)(context.Background(), newRequest(nil))
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected an error result")
	}

	if got := toolInvocations(t, reader); got["error"] != 1 {
		t.Errorf("invocations = %v, want one error", got)
	}

	record := lastAuditRecord(t, buf)
	if record["msg"] != "tool_failed" {
		t.Errorf("msg = %v, want tool_failed", record["msg"])
	}
	if record["error"] != "Unknown tool: nope" {
		t.Errorf("error = %v", record["error"])
	}
}

func TestInstrumentedToolHandler_GoError(t *testing.T) {
	sc, reader, _ := instrumentedContext(t)

	expectedErr := errors.New("transport closed")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}
	_, err := InstrumentedToolHandler("send_email", instrumentation.ResourceMail, sc, handler)(context.Background(), newRequest(nil))
	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}

	if got := toolInvocations(t, reader); got["error"] != 1 {
		t.Errorf("invocations = %v, want one error", got)
	}
}

func TestResultError(t *testing.T) {
	if got := resultError(&mcp.CallToolResult{}); !errors.Is(got, errToolResult) {
		t.Errorf("empty result error = %v, want errToolResult", got)
	}
	if got := resultError(mcp.NewToolResultError("boom")); got.Error() != "boom" {
		t.Errorf("resultError = %v, want boom", got)
	}
}
