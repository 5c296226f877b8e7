package metrics

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type statusError struct{ code int }

func (e statusError) Error() string   { return "request failed" }
func (e statusError) StatusCode() int { return e.code }

// TestResponseStatus checks that the resolved status matches what the error
// handler will answer with, not the stale pre-handler response status.
func TestResponseStatus(t *testing.T) {
	app := fiber.New()
	var got int
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		got = ResponseStatus(c, err)
		return err
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/typed", func(c *fiber.Ctx) error {
		return statusError{code: fiber.StatusNotFound}
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.ErrTeapot
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path string
		want int
	}{
		{"/ok", 204},
		{"/typed", 404},
		{"/fiber", 418},
		{"/plain", 500},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest("GET", tt.path, nil)
		if _, err := app.Test(req, -1); err != nil {
			t.Fatalf("GET %s: %v", tt.path, err)
		}
		if got != tt.want {
			t.Fatalf("GET %s: resolved status %d, want %d", tt.path, got, tt.want)
		}
	}
}
