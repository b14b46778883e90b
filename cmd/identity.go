package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/outlook-mcp/internal/auth"
	"github.com/teemow/outlook-mcp/internal/config"
	"github.com/teemow/outlook-mcp/internal/logging"
	"github.com/teemow/outlook-mcp/internal/server"
)

// AuthorityHostEnvVar overrides the identity platform host when
// --authority-host is not set.
const AuthorityHostEnvVar = "OUTLOOK_AUTHORITY_HOST"

// IdentityConfig holds the sign-in settings shared by serve and call.
type IdentityConfig struct {
	ClientID      string
	TenantID      string
	EnvFile       string
	AuthorityHost string
}

func addIdentityFlags(cmd *cobra.Command, c *IdentityConfig) {
	cmd.Flags().StringVar(&c.ClientID, "client-id", "", "Azure app registration (client) ID. Can also use CLIENT_ID or MCP_CLIENT_ID env vars.")
	cmd.Flags().StringVar(&c.TenantID, "tenant-id", "", "Azure tenant ID or domain. Can also use TENANT_ID or MCP_TENANT_ID env vars.")
	cmd.Flags().StringVar(&c.EnvFile, "env-file", "", "Optional dotenv file consulted after the process environment")
	cmd.Flags().StringVar(&c.AuthorityHost, "authority-host", "", "Identity platform host for sovereign clouds (default: "+auth.DefaultAuthorityHost+"). Can also use "+AuthorityHostEnvVar+" env var.")
}

// loadEnv fills settings that have an environment fallback outside the
// identity resolver.
func (c *IdentityConfig) loadEnv(lookup config.LookupFunc) {
	if c.AuthorityHost == "" {
		if host, ok := lookup(AuthorityHostEnvVar); ok {
			c.AuthorityHost = host
		}
	}
}

func (c IdentityConfig) resolver(lookup config.LookupFunc) *config.Resolver {
	return config.NewResolver(config.Flags{
		ClientID: c.ClientID,
		TenantID: c.TenantID,
		EnvFile:  c.EnvFile,
	}, lookup)
}

// newServerContext creates the server context for c. Nothing is resolved
// or sent until the first tool call.
func newServerContext(ctx context.Context, c IdentityConfig, logger logging.Logger, opts ...server.Option) (*server.ServerContext, error) {
	c.loadEnv(os.LookupEnv)

	var sessionOpts []auth.Option
	if c.AuthorityHost != "" {
		sessionOpts = append(sessionOpts, auth.WithAuthorityHost(c.AuthorityHost))
	}

	opts = append([]server.Option{
		server.WithLogger(logger),
		server.WithSessionOptions(sessionOpts...),
	}, opts...)
	return server.NewServerContext(ctx, c.resolver(os.LookupEnv), opts...)
}
