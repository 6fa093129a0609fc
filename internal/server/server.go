// Package server assembles the echo instance: middleware, error envelope
// and routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zizouhuweidi/trivia/internal/handler"
	"github.com/zizouhuweidi/trivia/internal/metrics"
	"github.com/zizouhuweidi/trivia/internal/ratelimit"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// Options carries the optional collaborators of the server
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Limiter ratelimit.Allower
}

// New builds the HTTP server around the trivia service
func New(trivia *service.TriviaService, opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(corsHeaders())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: allowedHeaders,
		AllowMethods: allowedMethods,
	}))
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
	}
	if opts.Limiter != nil {
		e.Use(ratelimit.Middleware(opts.Limiter, log))
	}

	// Routes
	handler.NewTriviaHandler(trivia).Register(e)

	if opts.Metrics != nil {
		e.GET("/metrics", opts.Metrics.Handler())
	}

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	return e
}
