// Package main provides the artisan API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/avsworks/artisan/pkg/web"
)

type API struct {
	runner web.Runner
	logger *slog.Logger
}

func NewAPI(runner web.Runner, logger *slog.Logger) *API {
	return &API{
		runner: runner,
		logger: logger,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewHandlers(a.runner, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Artisan API")
	})

	app.Post("/triggers", handlers.SubmitTrigger)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
