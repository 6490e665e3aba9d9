package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

// fail maps a service error to an HTTP response.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrLastFloor),
		errors.Is(err, repository.ErrProtected),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrSyncDisabled):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInconsistentState):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inconsistent table state"})
	}
	c.Logger().Errorf("request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// result writes v, or 409 when the transition was not applied.
func result(c echo.Context, v any, applied bool, err error) error {
	if err != nil {
		return fail(c, err)
	}
	if !applied {
		return c.JSON(http.StatusConflict, echo.Map{"error": "transition rejected", "current": v})
	}
	return c.JSON(http.StatusOK, v)
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

func list[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
