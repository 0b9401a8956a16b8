package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/dashboard"
	"taskboard/internal/session"
	"taskboard/pkg/logger"
)

// Dashboard screen handlers. Every POST applies one state-machine
// transition and renders the resulting view directly; the current mode
// travels with the request as a hidden form field.

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ct := dashboard.NewController(h.gateway(c))
	// Mount always starts on the personal list.
	s := ct.Open(c.UserContext(), dashboard.ModeOwn)
	return h.renderDashboard(c, s)
}

func (h *Handler) ViewAllTasks(c *fiber.Ctx) error {
	ct := dashboard.NewController(h.gateway(c))
	s := ct.Open(c.UserContext(), formMode(c))
	ct.ViewAllTasks(c.UserContext(), s)
	return h.renderDashboard(c, s)
}

func (h *Handler) ViewOwnTasks(c *fiber.Ctx) error {
	ct := dashboard.NewController(h.gateway(c))
	s := ct.Open(c.UserContext(), formMode(c))
	ct.ViewOwnTasks(c.UserContext(), s)
	return h.renderDashboard(c, s)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	type taskForm struct {
		Title       string `form:"title" validate:"required"`
		Description string `form:"description"`
	}

	ct := dashboard.NewController(h.gateway(c))
	s := ct.Open(c.UserContext(), formMode(c))

	var form taskForm
	if err := c.BodyParser(&form); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		s.SetError("Failed to create task")
		return h.renderDashboard(c, s)
	}
	// The title input carries the required attribute, so a browser never
	// submits an empty one; this is the backstop for direct requests.
	if err := config.Validate.Struct(form); err != nil {
		logger.AuditLogger.Warn("Validation error in create task", zap.Error(err))
		s.SetError("Task title is required")
		return h.renderDashboard(c, s)
	}

	ct.CreateTask(c.UserContext(), s, form.Title, form.Description)
	if s.Error == "" {
		logger.AuditLogger.Info("Task created", zap.String("title", form.Title))
	}
	return h.renderDashboard(c, s)
}

func (h *Handler) ToggleTask(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	completed := c.FormValue("completed") == "true"

	ct := dashboard.NewController(h.gateway(c))
	s := ct.Open(c.UserContext(), formMode(c))
	ct.ToggleComplete(c.UserContext(), s, id, completed)
	return h.renderDashboard(c, s)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	ct := dashboard.NewController(h.gateway(c))
	s := ct.Open(c.UserContext(), formMode(c))
	ct.DeleteTask(c.UserContext(), s, id)
	if s.Error == "" {
		logger.AuditLogger.Info("Task deleted", zap.Int("task_id", id))
	}
	return h.renderDashboard(c, s)
}

// renderDashboard derives the role fresh from the stored token on every
// render; it is never cached. A rejected token tears the session down.
func (h *Handler) renderDashboard(c *fiber.Ctx, s *dashboard.State) error {
	if s.Unauthorized {
		h.Sessions.ClearToken(c)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	token, _ := h.Sessions.Token(c)
	role := session.RoleFromToken(token)

	return c.Render("dashboard", fiber.Map{
		"Tasks":   s.Tasks,
		"Mode":    string(s.Mode),
		"ModeAll": s.Mode == dashboard.ModeAll,
		"Error":   s.Error,
		"Success": s.Success,
		"Loading": s.Loading,
		"IsAdmin": role.IsAdmin(),
	}, "layouts/main")
}

func formMode(c *fiber.Ctx) dashboard.Mode {
	if c.FormValue("mode") == string(dashboard.ModeAll) {
		return dashboard.ModeAll
	}
	return dashboard.ModeOwn
}
