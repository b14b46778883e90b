package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx Graph response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Correlation ids for Microsoft support.
	RequestID       string
	ClientRequestID string
}

// Error returns Graph's own message when it sent one.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("graph request failed with status %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("graph request failed with status %d", e.StatusCode)
}

// errorResponse is Graph's error body: {"error":{"code":"...","message":"..."}}.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(resp *http.Response, clientRequestID string) *APIError {
	apiErr := &APIError{
		StatusCode:      resp.StatusCode,
		RequestID:       resp.Header.Get(HeaderRequestID),
		ClientRequestID: clientRequestID,
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorResponse
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	} else if text := strings.TrimSpace(string(data)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from Graph, which in practice
// means the access token has expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
