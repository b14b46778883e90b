package instrumentation

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordToolInvocation(ctx, "read_emails", StatusSuccess, 10*time.Millisecond)
	m.RecordToolInvocation(ctx, "send_email", StatusError, 20*time.Millisecond)

	if got := collectSum(t, reader, "mcp_tool_invocations_total"); got != 2 {
		t.Errorf("mcp_tool_invocations_total = %d, want 2", got)
	}
}

func TestMetrics_RecordGraphRequest(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGraphRequest(ctx, ResourceMail, "GET", StatusSuccess, 100*time.Millisecond)
	m.RecordGraphRequest(ctx, ResourceCalendar, "POST", StatusError, 300*time.Millisecond)
	m.RecordGraphRequest(ctx, ResourceContacts, "GET", StatusSuccess, 50*time.Millisecond)

	if got := collectSum(t, reader, "graph_requests_total"); got != 3 {
		t.Errorf("graph_requests_total = %d, want 3", got)
	}
}

func TestMetrics_RecordDeviceCodeAuth(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDeviceCodeAuth(ctx, AuthResultSuccess)
	m.RecordDeviceCodeAuth(ctx, AuthResultDeclined)

	if got := collectSum(t, reader, "device_code_auth_total"); got != 2 {
		t.Errorf("device_code_auth_total = %d, want 2", got)
	}
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, 5*time.Millisecond)

	if got := collectSum(t, reader, "http_requests_total"); got != 1 {
		t.Errorf("http_requests_total = %d, want 1", got)
	}
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	var zero Metrics
	zero.RecordToolInvocation(ctx, "read_emails", StatusSuccess, time.Millisecond)
	zero.RecordGraphRequest(ctx, ResourceMail, "GET", StatusSuccess, time.Millisecond)
	zero.RecordDeviceCodeAuth(ctx, AuthResultFailure)
	zero.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.RecordToolInvocation(ctx, "read_emails", StatusSuccess, time.Millisecond)
}
