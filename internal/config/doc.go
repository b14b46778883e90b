// Package config resolves the Azure app registration identity (client id and
// tenant id) the server authenticates with.
//
// Resolution walks an ordered table of sources and takes, per field, the first
// non-empty value:
//
//  1. explicit command flags (--client-id, --tenant-id)
//  2. environment variables, in the order listed in ClientIDEnvVars and TenantIDEnvVars
//  3. an optional dotenv file (--env-file), read without touching the process environment
//  4. the placeholder defaults
//
// A field that still equals its placeholder after resolution is a configuration
// error. Validation happens before any authentication attempt.
package config
