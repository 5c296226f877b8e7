package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"fortivo-crm/internal/api"
	"fortivo-crm/internal/config"
	"fortivo-crm/internal/crm"
	"fortivo-crm/internal/metrics"
	"fortivo-crm/internal/store"
	"fortivo-crm/internal/web"
	"fortivo-crm/pkg/logger"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Init logger
	zl := logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	zl.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("config loaded")

	// 3. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		zl.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 4. Ensure schema
	if err := db.Bootstrap(ctx); err != nil {
		zl.Fatal().Err(err).Msg("failed to bootstrap schema")
	}
	zl.Info().Msg("clients table ready")

	// 5. Build app
	engine := html.New(cfg.Templates.Dir, ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: api.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(metrics.Middleware())
	app.Use(requestLogger())

	// 6. Operational endpoints
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	// 7. Register surfaces
	repo := crm.NewRepository(db)
	web.RegisterRoutes(app, web.NewHandler(repo))
	api.RegisterRoutes(app, api.NewHandler(repo))
	app.Static("/static", cfg.Static.Dir)

	// 8. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zl.Info().Str("addr", addr).Msg("starting server")
	if err := app.Listen(addr); err != nil {
		zl.Fatal().Err(err).Msg("server stopped")
	}
}

// requestLogger emits one structured line per handled request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		zl := logger.Get()
		zl.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", metrics.ResponseStatus(c, err)).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
