package controller

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/pfm/internal/api"
)

// SessionHint is appended to messages for requests the server rejected as
// unauthenticated. The stored token is left in place.
const SessionHint = " (session expired? run `pfm login`)"

// ValidationError is a form problem caught before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Describe turns any error from a controller operation into the text shown
// to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if api.IsUnauthorized(err) {
			return apiErr.Message + SessionHint
		}
		return apiErr.Message
	}

	var te *api.TransportError
	if errors.As(err, &te) {
		if errors.Is(te.Err, api.ErrResponseTooLarge) {
			return fmt.Sprintf("Server response too large to load: %v", te.Err)
		}
		if te.Op == "decoding response" {
			return fmt.Sprintf("Unexpected response from server: %v", te.Err)
		}
		return fmt.Sprintf("Could not reach server: %v", te.Err)
	}

	return err.Error()
}
