package middleware

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/internal/session"
)

// RequireToken guards the dashboard routes: without a stored token the user
// is sent to the login screen. Presence only; the token is not verified
// here, the remote API rejects it if it is bad.
func RequireToken(store session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := store.Token(c)
		if !ok || token == "" {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		c.Locals("token", token)
		return c.Next()
	}
}
