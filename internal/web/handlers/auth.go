package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/apiclient"
	"taskboard/internal/config"
	"taskboard/pkg/logger"
)

// Auth screen handlers

func (h *Handler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"Email": ""}, "layouts/main")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	// struct loginForm receives the submitted credentials
	type loginForm struct {
		Email    string `form:"email" validate:"required,email"`
		Password string `form:"password" validate:"required"`
	}

	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Error": "Bad request",
			"Email": "",
		}, "layouts/main")
	}

	if err := config.Validate.Struct(form); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{
			"Error": "Please provide a valid email and password",
			"Email": form.Email,
		}, "layouts/main")
	}

	token, err := h.API.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		// Token store stays untouched on a rejected login
		logger.AuditLogger.Warn("Login rejected", zap.String("email", form.Email))
		return c.Status(statusFor(err)).Render("login", fiber.Map{
			"Error": apiclient.Message(err),
			"Email": form.Email,
		}, "layouts/main")
	}

	if err := h.Sessions.SetToken(c, token); err != nil {
		logger.ErrorLogger.Error("Error persisting session token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{
			"Error": "Login failed",
			"Email": form.Email,
		}, "layouts/main")
	}

	logger.AuditLogger.Info("Login success", zap.String("email", form.Email))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (h *Handler) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{"Email": ""}, "layouts/main")
}

// Register passes the chosen role through to the API verbatim. The role
// select is advisory signup input; the remote API is the trust boundary for
// what a fresh account may actually become.
func (h *Handler) Register(c *fiber.Ctx) error {
	type registerForm struct {
		Email    string `form:"email" validate:"required,email"`
		Password string `form:"password" validate:"required,min=6"`
		Role     string `form:"role" validate:"required,oneof=user admin"`
	}

	var form registerForm
	if err := c.BodyParser(&form); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": "Bad request",
			"Email": "",
		}, "layouts/main")
	}

	if err := config.Validate.Struct(form); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Error": "Please fill in all fields correctly",
			"Email": form.Email,
		}, "layouts/main")
	}

	if err := h.API.Register(c.UserContext(), form.Email, form.Password, form.Role); err != nil {
		logger.AuditLogger.Warn("Registration rejected", zap.String("email", form.Email))
		return c.Status(statusFor(err)).Render("register", fiber.Map{
			"Error": apiclient.Message(err),
			"Email": form.Email,
		}, "layouts/main")
	}

	logger.AuditLogger.Info("User registered", zap.String("email", form.Email), zap.String("role", form.Role))
	// The page redirects itself to the login screen after a short delay.
	return c.Render("register", fiber.Map{
		"Success":       "Registered successfully! Redirecting to login...",
		"RedirectLogin": true,
		"Email":         form.Email,
	}, "layouts/main")
}

// Logout clears the stored token and returns to the login screen. No API
// call is made.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.Sessions.ClearToken(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// statusFor mirrors the API error class in the page response status so the
// screens stay honest HTTP citizens.
func statusFor(err error) int {
	switch apiclient.Classify(err) {
	case apiclient.KindAuth:
		return fiber.StatusUnauthorized
	case apiclient.KindForbidden:
		return fiber.StatusForbidden
	case apiclient.KindValidation:
		return fiber.StatusBadRequest
	case apiclient.KindNetwork:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
