package api

import (
	"github.com/gofiber/fiber/v2"

	"fortivo-crm/internal/crm"
)

// RegisterRoutes mounts the JSON surface. The catch-all registrations sit
// after the verb-specific ones, so they only fire for verbs the path does
// not support and answer 405 with the Allow header.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/api/clients", h.List)
	app.Post("/api/clients", h.Create)
	app.All("/api/clients", MethodNotAllowed("GET", "POST"))

	app.Get("/api/clients/:id", h.GetByID)
	app.Put("/api/clients/:id", h.Update)
	app.Patch("/api/clients/:id", h.Update)
	app.Delete("/api/clients/:id", h.Delete)
	app.All("/api/clients/:id", itemMethodNotAllowed("GET", "PUT", "PATCH", "DELETE"))
}

// MethodNotAllowed returns a handler answering 405 and advertising the
// verbs the path supports.
func MethodNotAllowed(allow ...string) fiber.Handler {
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
