package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var errorMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// NewErrorResponse builds the envelope for an HTTP status
func NewErrorResponse(code int) ErrorResponse {
	message, ok := errorMessages[code]
	if !ok {
		message = strings.ToLower(http.StatusText(code))
	}
	return ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
	}
}

// NewErrorHandler renders every error as an ErrorResponse. Anything that is
// not an *echo.HTTPError is an internal server error.
func NewErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}

		if code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.String("error", err.Error()),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, NewErrorResponse(code))
		}
		if writeErr != nil {
			log.Error("failed to write error response", slog.String("error", writeErr.Error()))
		}
	}
}
