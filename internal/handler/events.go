package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// EventHandler reads the lifecycle audit trail.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(events *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: events}
}

// Recent handles GET /v1/events?entity_id=&limit=.
func (h *EventHandler) Recent(c echo.Context) error {
	if h.Events == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "audit trail disabled"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.Events.Recent(c.Request().Context(), c.QueryParam("entity_id"), limit)
	if err != nil {
		c.Logger().Errorf("load events: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return list(c, items)
}
