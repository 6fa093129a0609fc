package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var (
	allowedHeaders = []string{echo.HeaderContentType, echo.HeaderAuthorization}
	allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
)

// requestLogger logs one line per request; 5xx at error level
func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}
			if v.Error == nil {
				log.LogAttrs(context.Background(), slog.LevelInfo, "request", attrs...)
				return nil
			}

			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs = append(attrs, slog.String("error", v.Error.Error()))
			log.LogAttrs(context.Background(), level, "request error", attrs...)
			return nil
		},
	})
}

// corsHeaders advertises the allowed headers and methods on every response,
// errors included. middleware.CORS only sends them on preflight.
func corsHeaders() echo.MiddlewareFunc {
	headers := strings.Join(allowedHeaders, ", ")
	methods := strings.Join(allowedMethods, ", ")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowHeaders, headers)
			h.Set(echo.HeaderAccessControlAllowMethods, methods)
			return next(c)
		}
	}
}
