package server

import (
	"context"
	"errors"
	"net/http"

	"storefront-checkout/internal/core/httpclient"
	"storefront-checkout/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocalLoginRequired is the fiber local set when a response demands a new login.
// The session middleware ends the session when it sees it.
const LocalLoginRequired = "login_required"

// ErrNoSession is returned when a request carries no known session id.
var ErrNoSession = errors.New("no active session")

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the user-facing error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
	// Code is a machine-readable reason, when one exists.
	Code string `json:"code,omitempty"`
	// Missing names the unmet checkout precondition, when relevant.
	Missing string `json:"missing,omitempty"`
	// LoginRequired tells the client to send the user to the sign-in screen.
	LoginRequired bool `json:"login_required,omitempty"`
	// Fields maps request fields to their validation failures.
	Fields map[string]string `json:"fields,omitempty"`
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(c *fiber.Ctx, status int, resp ErrorResponse) error {
	resp.RayID = RayID(c)
	return c.Status(status).JSON(resp)
}

// WriteUpstreamError maps collaborator and unknown errors to a response.
// Domain errors should be handled by the calling handler first.
func WriteUpstreamError(c *fiber.Ctx, err error) error {
	var apiErr *httpclient.APIError
	var netErr *httpclient.NetworkError

	switch {
	case errors.Is(err, ErrNoSession):
		return WriteError(c, http.StatusUnauthorized, ErrorResponse{Message: "Please start a session first", Code: "no_session"})

	case errors.As(err, &apiErr):
		resp := ErrorResponse{Message: apiErr.Error(), Code: apiErr.Service}
		if apiErr.RequiresLogin() {
			resp.LoginRequired = true
			c.Locals(LocalLoginRequired, true)
		}
		return WriteError(c, apiErr.Status, resp)

	case errors.As(err, &netErr):
		logger.Get().Warn("Collaborator unreachable",
			zap.String("service", netErr.Service),
			zap.String("ray_id", RayID(c)),
			zap.Error(netErr.Err),
		)
		return WriteError(c, http.StatusServiceUnavailable, ErrorResponse{Message: netErr.Error(), Code: "network_error"})

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return WriteError(c, http.StatusGatewayTimeout, ErrorResponse{Message: "Request cancelled"})
	}

	logger.Get().Error("Unhandled error",
		zap.String("ray_id", RayID(c)),
		zap.Error(err),
	)
	return WriteError(c, http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
}
