// Package common holds helpers shared by MCP tool packages: the handler
// wrapper that records tool metrics, a tracing span and an audit record.
package common
