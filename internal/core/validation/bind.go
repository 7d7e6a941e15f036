package validation

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/core/server"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrInvalidRequest is returned after BindAndValidate has written a 400 response.
var ErrInvalidRequest = errors.New("invalid request")

// BindAndValidate parses the JSON body into out and validates it.
// On failure it writes a 400 response and returns ErrInvalidRequest; the handler
// should then return nil.
func BindAndValidate(c *fiber.Ctx, out interface{}, v *validatorv10.Validate) error {
	if err := c.BodyParser(out); err != nil {
		_ = server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{
			Message: "Invalid request body",
			Code:    "invalid_request_body",
		})
		return ErrInvalidRequest
	}

	if err := v.Struct(out); err != nil {
		_ = server.WriteError(c, http.StatusBadRequest, server.ErrorResponse{
			Message: "The submitted data is invalid",
			Code:    "validation_failed",
			Fields:  validationErrorsToMap(err),
		})
		return ErrInvalidRequest
	}
	return nil
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
