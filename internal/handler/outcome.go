package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// outcome is the status table of one endpoint: what a missing resource and
// any other failure are reported as
type outcome struct {
	notFound int
	failure  int
}

var (
	listOutcome     = outcome{notFound: http.StatusNotFound, failure: http.StatusInternalServerError}
	searchOutcome   = outcome{notFound: http.StatusNotFound, failure: http.StatusInternalServerError}
	deleteOutcome   = outcome{notFound: http.StatusUnprocessableEntity, failure: http.StatusUnprocessableEntity}
	createOutcome   = outcome{notFound: http.StatusUnprocessableEntity, failure: http.StatusUnprocessableEntity}
	categoryOutcome = outcome{notFound: http.StatusNotFound, failure: http.StatusNotFound}
	quizOutcome     = outcome{notFound: http.StatusNotFound, failure: http.StatusNotFound}
)

func (o outcome) status(err error) int {
	if errors.Is(err, service.ErrNotFound) {
		return o.notFound
	}
	return o.failure
}

func (o outcome) fail(err error) error {
	return echo.NewHTTPError(o.status(err)).SetInternal(err)
}

// bindJSON decodes and validates a request body. Unparseable JSON is a bad
// request; a well-formed body of the wrong shape is reported as shapeStatus.
func bindJSON(c echo.Context, req any, shapeStatus int) error {
	if err := c.Bind(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return echo.NewHTTPError(shapeStatus).SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(shapeStatus).SetInternal(errors.Join(service.ErrInvalidInput, err))
	}
	return nil
}
