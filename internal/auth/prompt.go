package auth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Challenge is what the user needs to complete device sign-in.
type Challenge struct {
	VerificationURI         string
	VerificationURIComplete string
	UserCode                string
	Expiry                  time.Time
}

// PromptFunc shows a Challenge to the user. It must not block until
// sign-in completes; the Session polls afterwards.
type PromptFunc func(ctx context.Context, c Challenge) error

// WriterPrompt prints sign-in instructions to w.
func WriterPrompt(w io.Writer) PromptFunc {
	return func(_ context.Context, c Challenge) error {
		_, err := fmt.Fprintf(w, "\n=== Microsoft Graph Authentication Required ===\n\n"+
			"To authenticate with Microsoft Graph API:\n"+
			"1. Open this URL in your browser: %s\n"+
			"2. Enter this code: %s\n"+
			"3. Sign in with your Microsoft account\n\n",
			c.VerificationURI, c.UserCode)
		return err
	}
}

// StderrPrompt is the default prompt. stdout carries the stdio transport.
func StderrPrompt() PromptFunc {
	return WriterPrompt(os.Stderr)
}
