package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the outlook-mcp application
var rootCmd = &cobra.Command{
	Use:   "outlook-mcp",
	Short: "MCP server for Outlook mail, calendar and contacts",
	Long: `outlook-mcp is a Model Context Protocol (MCP) server that gives AI
assistants six tools over a Microsoft 365 mailbox through Microsoft Graph:
send and read email, create and list calendar events, search and create
contacts.

The server signs in with the OAuth device code flow on the first tool call.
Sign-in instructions are printed to stderr.

Running outlook-mcp without a subcommand starts the server on stdio.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "outlook-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, serve on stdio by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
