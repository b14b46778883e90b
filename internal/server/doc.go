// Package server holds the state shared by MCP tool calls and the HTTP
// listeners that sit next to the MCP endpoint.
//
// ServerContext resolves the Azure identity and signs in to Microsoft Graph
// lazily, on the first call to Mailbox. Concurrent callers share one
// bootstrap through a singleflight group; a failed bootstrap leaves nothing
// behind so the next call starts over.
//
// HTTPServer mounts the streamable HTTP transport on /mcp next to the
// HealthChecker endpoints /healthz, /readyz and /healthz/detailed.
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
