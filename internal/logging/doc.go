// Package logging provides structured logging utilities for the outlook-mcp server.
//
// Logging goes through the standard library's slog package. This package fixes
// the attribute names used across the codebase and provides redaction helpers
// for values that must never reach the logs verbatim (bearer tokens, device
// codes) or that should only be logged partially (client and tenant ids).
//
// # Usage Patterns
//
//	logger.Info("tool finished",
//	    logging.Tool("read_emails"),
//	    logging.Status(logging.StatusSuccess))
//
//	logger.Info("identity resolved",
//	    logging.ClientID(cfg.ClientID),
//	    logging.TenantID(cfg.TenantID))
//
// # Transport Considerations
//
// When the server runs on the stdio transport, stdout carries the MCP protocol.
// NewLogger therefore always writes to the writer it is given, and cmd wires it
// to stderr.
package logging
