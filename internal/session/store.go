package session

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"taskboard/pkg/crypto"
)

// CookieName is the fixed storage key for the persisted access token.
const CookieName = "taskboard_session"

// Store owns the persisted access token: one opaque string, absent when
// logged out. Handlers never touch the cookie layer directly so the backing
// can be swapped (sealed cookie, Redis, test fake) without touching UI code.
type Store interface {
	// Token returns the stored access token, or false when logged out or
	// when the stored value is unreadable.
	Token(c *fiber.Ctx) (string, bool)
	SetToken(c *fiber.Ctx, token string) error
	ClearToken(c *fiber.Ctx)
}

// CookieStore keeps the token in a single sealed cookie on the client,
// the direct analog of browser local storage.
type CookieStore struct {
	sealer *crypto.Sealer
}

func NewCookieStore(sealer *crypto.Sealer) *CookieStore {
	return &CookieStore{sealer: sealer}
}

func (s *CookieStore) Token(c *fiber.Ctx) (string, bool) {
	sealed := c.Cookies(CookieName)
	if sealed == "" {
		return "", false
	}
	token, err := s.sealer.Open(sealed)
	if err != nil {
		// Unreadable cookie degrades to logged-out, never to a stale token.
		return "", false
	}
	return token, true
}

func (s *CookieStore) SetToken(c *fiber.Ctx, token string) error {
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) ClearToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
