package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/internal/apiclient"
	"taskboard/internal/session"
)

// Handler carries the injected collaborators for all three screens.
type Handler struct {
	API      *apiclient.Client
	Sessions session.Store
}

func New(api *apiclient.Client, sessions session.Store) *Handler {
	return &Handler{API: api, Sessions: sessions}
}

// gateway binds the API client to the request's stored token, if any.
func (h *Handler) gateway(c *fiber.Ctx) *apiclient.Client {
	if token, ok := h.Sessions.Token(c); ok {
		return h.API.WithToken(token)
	}
	return h.API
}
