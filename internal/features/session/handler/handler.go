package handler

import (
	"errors"
	"net/http"
	"strings"

	"storefront-checkout/internal/core/server"
	cartports "storefront-checkout/internal/features/cart/ports"
	checkoutports "storefront-checkout/internal/features/checkout/ports"
	"storefront-checkout/internal/features/session/domain"
	"storefront-checkout/internal/features/session/service"

	"github.com/gofiber/fiber/v2"
)

// HeaderSessionID carries the id returned by POST /sessions.
const HeaderSessionID = "X-Session-ID"

const localSession = "session"

// SessionHandler handles sign-in and sign-out, and resolves sessions for other handlers.
type SessionHandler struct {
	registry *service.Registry
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(registry *service.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// Start handles POST /sessions.
// @Summary Start a session
// @Description Signs the shopper in with their bearer token and loads their cart.
// @Tags Sessions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 201 {object} domain.Session
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))

	active, err := h.registry.Start(c.UserContext(), token)
	if errors.Is(err, domain.ErrMissingToken) {
		return server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{Message: err.Error(), Code: "missing_token"})
	}
	if err != nil {
		return server.WriteUpstreamError(c, err)
	}

	c.Set(HeaderSessionID, active.ID)
	return c.Status(http.StatusCreated).JSON(active.Session)
}

// End handles DELETE /sessions.
// @Summary Sign out
// @Tags Sessions
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Failure 401 {object} server.ErrorResponse
// @Router /sessions [delete]
func (h *SessionHandler) End(c *fiber.Ctx) error {
	if err := h.registry.End(c.Get(HeaderSessionID)); err != nil {
		return server.WriteUpstreamError(c, server.ErrNoSession)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Middleware attaches the session named by X-Session-ID to the request and forwards
// its token to collaborators. Requests without a known session pass through; the
// resolvers report them. A response that demands a new login ends the session.
func (h *SessionHandler) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderSessionID)
		if id == "" {
			return c.Next()
		}

		active, err := h.registry.Get(id)
		if err != nil {
			return c.Next()
		}

		c.Locals(localSession, active)
		c.SetUserContext(active.Context(c.UserContext()))

		err = c.Next()

		if required, _ := c.Locals(server.LocalLoginRequired).(bool); required {
			_ = h.registry.End(id)
		}
		return err
	}
}

// Cart returns the cart store of the request's session.
func (h *SessionHandler) Cart(c *fiber.Ctx) (cartports.CartService, error) {
	active, err := current(c)
	if err != nil {
		return nil, err
	}
	return active.Cart, nil
}

// Checkout returns the checkout of the request's session.
func (h *SessionHandler) Checkout(c *fiber.Ctx) (checkoutports.CheckoutService, error) {
	active, err := current(c)
	if err != nil {
		return nil, err
	}
	return active.Checkout, nil
}

func current(c *fiber.Ctx) (*service.Active, error) {
	active, ok := c.Locals(localSession).(*service.Active)
	if !ok {
		return nil, server.ErrNoSession
	}
	return active, nil
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
