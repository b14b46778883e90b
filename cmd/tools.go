package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/outlook-mcp/internal/tools/outlook_tools"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog as JSON",
		Long: `Print the definitions of all MCP tools, as returned by tools/list, as JSON.
No identity is resolved and nothing is sent to Microsoft.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCatalog(cmd.OutOrStdout())
		},
	}
}

func writeCatalog(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outlook_tools.Catalog()); err != nil {
		return fmt.Errorf("failed to encode tool catalog: %w", err)
	}
	return nil
}
