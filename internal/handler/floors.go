package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/service"
)

// FloorHandler manages floors and tables.
type FloorHandler struct {
	Floors *service.FloorService
}

func NewFloorHandler(f *service.FloorService) *FloorHandler {
	return &FloorHandler{Floors: f}
}

type nameReq struct {
	Name string `json:"name"`
}

func (h *FloorHandler) ListFloors(c echo.Context) error {
	return list(c, h.Floors.Floors())
}

func (h *FloorHandler) CreateFloor(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	f, err := h.Floors.CreateFloor(req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *FloorHandler) RenameFloor(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	f, err := h.Floors.RenameFloor(c.Param("id"), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFloor answers 409 for the last floor or a floor with an occupied
// table.
func (h *FloorHandler) DeleteFloor(c echo.Context) error {
	if err := h.Floors.DeleteFloor(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTables handles GET /v1/tables?floor=.
func (h *FloorHandler) ListTables(c echo.Context) error {
	return list(c, h.Floors.Tables(c.QueryParam("floor")))
}

func (h *FloorHandler) GetTable(c echo.Context) error {
	t, err := h.Floors.Table(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type createTableReq struct {
	FloorID string `json:"floor_id"`
	Name    string `json:"name"`
}

func (h *FloorHandler) CreateTable(c echo.Context) error {
	var req createTableReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	t, err := h.Floors.CreateTable(req.FloorID, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *FloorHandler) RenameTable(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	t, err := h.Floors.RenameTable(c.Param("id"), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *FloorHandler) DeleteTable(c echo.Context) error {
	if err := h.Floors.DeleteTable(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
