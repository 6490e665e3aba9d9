package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

// StaffHandler manages roles, employees and plugin toggles.
type StaffHandler struct {
	Staff *service.StaffService
}

func NewStaffHandler(s *service.StaffService) *StaffHandler {
	return &StaffHandler{Staff: s}
}

type roleReq struct {
	Name        string          `json:"name"`
	Permissions map[string]bool `json:"permissions"`
}

func (h *StaffHandler) ListRoles(c echo.Context) error {
	return list(c, h.Staff.Roles())
}

func (h *StaffHandler) CreateRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	r, err := h.Staff.CreateRole(req.Name, req.Permissions)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// UpdateRole takes effect on the next request of every employee holding the
// role; nothing is cached.
func (h *StaffHandler) UpdateRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	r, err := h.Staff.UpdateRole(c.Param("id"), req.Name, req.Permissions)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *StaffHandler) DeleteRole(c echo.Context) error {
	if err := h.Staff.DeleteRole(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type employeeReq struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RoleID string `json:"role_id"`
	PIN    string `json:"pin"`
}

func (h *StaffHandler) ListEmployees(c echo.Context) error {
	return list(c, h.Staff.Employees())
}

func (h *StaffHandler) CreateEmployee(c echo.Context) error {
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	e, err := h.Staff.CreateEmployee(req.ID, req.Name, req.RoleID, req.PIN)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

type assignRoleReq struct {
	RoleID string `json:"role_id"`
}

// SetEmployeeRole handles PUT /v1/employees/:id/role.
func (h *StaffHandler) SetEmployeeRole(c echo.Context) error {
	var req assignRoleReq
	if err := c.Bind(&req); err != nil || req.RoleID == "" {
		return badBody(c)
	}
	e, err := h.Staff.SetEmployeeRole(c.Param("id"), req.RoleID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *StaffHandler) GetPlugins(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Staff.Plugins())
}

// SetPlugins replaces every plugin flag at once.
func (h *StaffHandler) SetPlugins(c echo.Context) error {
	var p model.Plugins
	if err := c.Bind(&p); err != nil {
		return badBody(c)
	}
	h.Staff.SetPlugins(p)
	return c.JSON(http.StatusOK, h.Staff.Plugins())
}
