package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from a collaborator service.
type APIError struct {
	// Service is the collaborator that answered (e.g. "cart").
	Service string
	// Status is the HTTP status code.
	Status int
	// Message is the server-provided message, passed through verbatim when present.
	Message string
	// identityBearing marks services whose 401 ends the user's session.
	identityBearing bool
}

// Error returns the server message, or a generic per-status message when there is none.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage(e.Status)
}

// Unauthorized reports whether the service rejected the bearer token.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// RequiresLogin reports whether the failure must clear the session and send the user to sign in.
// Only identity-bearing services force this; a 401 from cart or product calls does not.
func (e *APIError) RequiresLogin() bool {
	return e.Unauthorized() && e.identityBearing
}

// FallbackMessage returns the user-facing message for a status without a server message.
func FallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Your session has expired. Please sign in again"
	case http.StatusForbidden:
		return "You do not have permission to perform this action"
	case http.StatusNotFound:
		return "The requested resource was not found"
	case http.StatusUnprocessableEntity:
		return "The submitted data is invalid"
	case http.StatusTooManyRequests:
		return "Too many requests. Please try again later"
	case http.StatusInternalServerError:
		return "Server error. Please try again later"
	default:
		return fmt.Sprintf("Request failed with status %d", status)
	}
}

// NetworkError means no response arrived from a collaborator after all retries.
type NetworkError struct {
	// Service is the unreachable collaborator.
	Service string
	// Err is the last transport error.
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Unable to reach the %s service", e.Service)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from a collaborator.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// RequiresLogin reports whether err must end the user's session.
func RequiresLogin(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RequiresLogin()
}
