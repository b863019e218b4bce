package middleware

import (
	"crypto/subtle"

	"faq/app/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// AdminOnly accepts requests carrying "Authorization: Bearer <token>".
// With an empty token every request is refused.
func AdminOnly(token string) fiber.Handler {
	return keyauth.New(keyauth.Config{
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if token == "" || subtle.ConstantTimeCompare([]byte(key), []byte(token)) != 1 {
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}
			return true, nil
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return api.ErrUnAuthorized("admin token required")
		},
	})
}
