// Package cmd implements the command-line interface for outlook-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - tools: Print the tool catalog as JSON without signing in
//   - call: Run a single tool from the command line
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
