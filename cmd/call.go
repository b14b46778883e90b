package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/outlook-mcp/internal/logging"
	"github.com/teemow/outlook-mcp/internal/tools/outlook_tools"
)

// errToolFailed is returned after a failed envelope has been printed.
var errToolFailed = errors.New("tool call failed")

func newCallCmd() *cobra.Command {
	var (
		identity IdentityConfig
		rawArgs  string
		debug    bool
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Run a single tool and print its result",
		Long: `Run one tool outside of an MCP client and print the JSON result.
Signs in with the device code flow first; instructions are printed to stderr.

Example:
  outlook-mcp call read_emails --args '{"top": 5}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseToolArgs(rawArgs)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runCall(ctx, identity, args[0], toolArgs, logging.NewLogger(os.Stderr, debug), cmd.OutOrStdout())
		},
	}

	addIdentityFlags(cmd, &identity)
	cmd.Flags().StringVar(&rawArgs, "args", "{}", "Tool arguments as a JSON object")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}

func parseToolArgs(raw string) (map[string]any, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("--args must be a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func runCall(ctx context.Context, identity IdentityConfig, tool string, args map[string]any, logger logging.Logger, out io.Writer) error {
	serverContext, err := newServerContext(ctx, identity, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	d := outlook_tools.NewDispatcher(outlook_tools.ServerContextSource(serverContext), outlook_tools.WithLogger(logger))
	env := d.Dispatch(ctx, tool, args)

	if _, err := fmt.Fprintln(out, env.Text()); err != nil {
		return err
	}
	if !env.Success {
		return errToolFailed
	}
	return nil
}
