package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"fortivo-crm/internal/crm"
	"fortivo-crm/internal/store"
	"fortivo-crm/pkg/logger"
)

// Handler serves the JSON surface under /api/clients.
type Handler struct {
	repo     *crm.Repository
	validate *validator.Validate
}

func NewHandler(repo *crm.Repository) *Handler {
	return &Handler{repo: repo, validate: validator.New()}
}

// List handles GET /api/clients?q=&status=
func (h *Handler) List(c *fiber.Ctx) error {
	q := crm.ListQuery{
		Search: c.Query("q"),
		Status: c.Query("status"),
	}
	clients, err := h.repo.List(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(clients)
}

// Create handles POST /api/clients
func (h *Handler) Create(c *fiber.Ctx) error {
	in := parseInput(c.Body())
	in.Normalize()
	if err := in.Validate(h.validate); err != nil {
		return err
	}

	client, err := h.repo.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// GetByID handles GET /api/clients/:id
func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	client, err := h.repo.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return crm.NotFoundError("client not found")
		}
		return err
	}
	return c.JSON(client)
}

// Update handles PUT and PATCH /api/clients/:id. Both verbs share partial
// semantics: only the fields present in the payload change.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var raw map[string]any
	// Malformed JSON degrades to an empty payload rather than a parse
	// error, so it surfaces as "no fields to update" below.
	_ = json.Unmarshal(c.Body(), &raw)
	patch := crm.PatchFromMap(raw)

	client, err := h.repo.Patch(c.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, crm.ErrNoFields):
			return crm.ValidationError("no fields to update")
		case errors.Is(err, store.ErrNotFound):
			return crm.NotFoundError("client not found")
		}
		return err
	}
	return c.JSON(client)
}

// Delete handles DELETE /api/clients/:id. Deletes are idempotent: an
// unknown id still answers 204.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseInput decodes a create/update body leniently: malformed JSON yields
// the zero payload, which fails required-field validation downstream.
func parseInput(body []byte) crm.ClientInput {
	var in crm.ClientInput
	_ = json.Unmarshal(body, &in)
	return in
}

// parseID extracts the :id path segment. A non-numeric id is a not-found
// condition, never a server error.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, crm.NotFoundError("client not found")
	}
	return id, nil
}

// ErrorHandler is the central Fiber error handler: it maps *crm.AppError to
// its status (with an Allow header for 405s) and anything unexpected to a
// 500, keeping internals out of the response body. API paths answer JSON;
// everything else plain text.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *crm.AppError
	if errors.As(err, &appErr) {
		if len(appErr.Allow) > 0 {
			c.Set(fiber.HeaderAllow, appErr.AllowHeader())
		}
		return respond(c, appErr.Status, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond(c, fiberErr.Code, fiberErr.Message)
	}

	log := logger.Get()
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return respond(c, fiber.StatusInternalServerError, "internal server error")
}

func respond(c *fiber.Ctx, status int, message string) error {
	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	return c.Status(status).SendString(message)
}
