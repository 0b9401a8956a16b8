package web

import (
	"github.com/gofiber/fiber/v2"

	"taskboard/internal/middleware"
	"taskboard/internal/session"
	"taskboard/internal/web/handlers"
)

func RegisterRoutes(app *fiber.App, h *handlers.Handler, store session.Store) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/login", fiber.StatusSeeOther)
	})

	// Auth screens
	app.Get("/login", h.LoginPage)
	app.Post("/login", h.Login)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", h.Register)
	app.Post("/logout", h.Logout)

	// Dashboard
	dash := app.Group("/dashboard", middleware.RequireToken(store))
	dash.Get("/", h.Dashboard)

	// Task mutations and view toggles
	tasks := app.Group("/tasks", middleware.RequireToken(store))
	tasks.Post("/", h.CreateTask)
	tasks.Post("/view/all", h.ViewAllTasks)
	tasks.Post("/view/own", h.ViewOwnTasks)
	tasks.Post("/:id/toggle", h.ToggleTask)
	tasks.Post("/:id/delete", h.DeleteTask)
}
