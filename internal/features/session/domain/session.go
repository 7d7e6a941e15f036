package domain

import (
	"errors"
	"time"
)

var (
	// ErrMissingToken is returned when a session is started without a bearer token.
	ErrMissingToken = errors.New("a bearer token is required to start a session")
	// ErrSessionNotFound is returned for an unknown or ended session id.
	ErrSessionNotFound = errors.New("session not found")
)

// Session is the public view of a signed-in shopper's session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
