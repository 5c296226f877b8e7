package web

import (
	"github.com/gofiber/fiber/v2"

	"fortivo-crm/internal/crm"
)

// RegisterRoutes mounts the HTML surface. Catch-alls are registered after
// the verb-specific routes so unsupported verbs answer 405 with Allow.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/", h.Home)

	app.Get("/dashboard", h.Dashboard)
	app.All("/dashboard", methodNotAllowed("GET"))

	app.Get("/clients", h.ListClients)
	app.All("/clients", methodNotAllowed("GET"))

	app.Get("/clients/new", h.NewClient)
	app.Post("/clients/new", h.NewClient)
	app.All("/clients/new", methodNotAllowed("GET", "POST"))

	app.Get("/clients/export", h.ExportCSV)
	app.All("/clients/export", methodNotAllowed("GET"))

	app.Get("/clients/:id/edit", h.EditClient)
	app.Post("/clients/:id/edit", h.EditClient)
	app.All("/clients/:id/edit", itemMethodNotAllowed("GET", "POST"))

	app.Get("/clients/:id/delete", h.DeleteClient)
	app.Post("/clients/:id/delete", h.DeleteClient)
	app.All("/clients/:id/delete", itemMethodNotAllowed("GET", "POST"))
}

func methodNotAllowed(allow ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return crm.MethodNotAllowedError(allow...)
	}
}

// itemMethodNotAllowed resolves the :id segment before the method check, so
// a malformed id answers 404 for any verb.
func itemMethodNotAllowed(allow ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseID(c); err != nil {
			return err
		}
		return crm.MethodNotAllowedError(allow...)
	}
}
