package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Placeholder values used when no source provides a field.
const (
	PlaceholderClientID = "your-client-id-here"
	PlaceholderTenantID = "your-tenant-id-here"
)

// Source names reported in Identity.ClientIDSource / TenantIDSource.
const (
	SourceFlag        = "flag"
	SourceEnv         = "env"
	SourceEnvFile     = "env-file"
	SourcePlaceholder = "placeholder"
)

// ClientIDEnvVars are the environment variables consulted for the client id, in order.
var ClientIDEnvVars = []string{
	"CLIENT_ID",
	"client_id",
	"MCP_CLIENT_ID",
	"USER_CONFIG_CLIENT_ID",
	"MS365_MCP_CLIENT_ID",
}

// TenantIDEnvVars are the environment variables consulted for the tenant id, in order.
var TenantIDEnvVars = []string{
	"TENANT_ID",
	"tenant_id",
	"MCP_TENANT_ID",
	"USER_CONFIG_TENANT_ID",
	"MS365_MCP_TENANT_ID",
}

// Identity is the Azure app registration the server signs in with.
type Identity struct {
	ClientID string
	TenantID string

	// Where each value came from, for diagnostics.
	ClientIDSource string
	TenantIDSource string
}

// Validate reports a ConfigError when either field is empty or a placeholder.
func (i Identity) Validate() error {
	clientMissing := i.ClientID == "" || i.ClientID == PlaceholderClientID
	tenantMissing := i.TenantID == "" || i.TenantID == PlaceholderTenantID
	if clientMissing || tenantMissing {
		return &ConfigError{ClientIDMissing: clientMissing, TenantIDMissing: tenantMissing}
	}
	return nil
}

// Flags holds identity values passed explicitly on the command line.
type Flags struct {
	ClientID string
	TenantID string
	EnvFile  string
}

// Source looks up a single field. It returns the value and whether it was found.
type Source struct {
	Name     string
	ClientID func() (string, bool)
	TenantID func() (string, bool)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolver evaluates Sources in order.
type Resolver struct {
	Sources []Source
}

// NewResolver builds the standard source table for the given flags.
// lookup defaults to os.LookupEnv when nil.
func NewResolver(flags Flags, lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	sources := []Source{
		{
			Name:     SourceFlag,
			ClientID: constant(flags.ClientID),
			TenantID: constant(flags.TenantID),
		},
		{
			Name:     SourceEnv,
			ClientID: firstOf(lookup, ClientIDEnvVars),
			TenantID: firstOf(lookup, TenantIDEnvVars),
		},
	}

	if flags.EnvFile != "" {
		fileLookup := dotenvLookup(flags.EnvFile)
		sources = append(sources, Source{
			Name:     SourceEnvFile,
			ClientID: firstOf(fileLookup, ClientIDEnvVars),
			TenantID: firstOf(fileLookup, TenantIDEnvVars),
		})
	}

	sources = append(sources, Source{
		Name:     SourcePlaceholder,
		ClientID: constant(PlaceholderClientID),
		TenantID: constant(PlaceholderTenantID),
	})

	return &Resolver{Sources: sources}
}

// Resolve walks the sources and returns the identity. It does not validate.
func (r *Resolver) Resolve() Identity {
	var id Identity
	for _, src := range r.Sources {
		if id.ClientID == "" && src.ClientID != nil {
			if v, ok := src.ClientID(); ok {
				id.ClientID, id.ClientIDSource = v, src.Name
			}
		}
		if id.TenantID == "" && src.TenantID != nil {
			if v, ok := src.TenantID(); ok {
				id.TenantID, id.TenantIDSource = v, src.Name
			}
		}
	}
	return id
}

// ResolveValid resolves and validates in one step.
func (r *Resolver) ResolveValid() (Identity, error) {
	id := r.Resolve()
	if err := id.Validate(); err != nil {
		return id, err
	}
	return id, nil
}

func constant(v string) func() (string, bool) {
	v = strings.TrimSpace(v)
	return func() (string, bool) {
		return v, v != ""
	}
}

func firstOf(lookup LookupFunc, keys []string) func() (string, bool) {
	return func() (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v, true
				}
			}
		}
		return "", false
	}
}

// dotenvLookup reads the file lazily on each lookup so a file created after
// startup is picked up by the next bootstrap attempt. A missing or malformed
// file behaves like an empty one.
func dotenvLookup(path string) LookupFunc {
	return func(key string) (string, bool) {
		values, err := godotenv.Read(path)
		if err != nil {
			return "", false
		}
		v, ok := values[key]
		return v, ok
	}
}

// ConfigError reports a missing or placeholder identity.
type ConfigError struct {
	ClientIDMissing bool
	TenantIDMissing bool
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf(`configuration error: Azure app registration details are required
1. CLIENT_ID: %s
2. TENANT_ID: %s

Pass --client-id/--tenant-id, or set one of %s and one of %s in the server environment.`,
		setOrNot(e.ClientIDMissing), setOrNot(e.TenantIDMissing),
		strings.Join(ClientIDEnvVars, ", "), strings.Join(TenantIDEnvVars, ", "))
}

func setOrNot(missing bool) string {
	if missing {
		return "NOT SET"
	}
	return "Set"
}
