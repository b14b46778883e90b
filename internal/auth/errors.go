package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/teemow/outlook-mcp/internal/instrumentation"
)

// AuthError is a failed device code sign-in.
type AuthError struct {
	// Stage is where the sign-in failed: "device_code", "prompt" or "token".
	Stage string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s: %v", e.Stage, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Result classifies err into a device_code_auth_total label.
func (e *AuthError) Result() string {
	var retrieveErr *oauth2.RetrieveError
	switch {
	case errors.As(e.Err, &retrieveErr) && retrieveErr.ErrorCode == "authorization_declined":
		return instrumentation.AuthResultDeclined
	case errors.As(e.Err, &retrieveErr) && retrieveErr.ErrorCode == "expired_token":
		return instrumentation.AuthResultExpired
	case errors.Is(e.Err, context.DeadlineExceeded):
		return instrumentation.AuthResultExpired
	default:
		return instrumentation.AuthResultFailure
	}
}
