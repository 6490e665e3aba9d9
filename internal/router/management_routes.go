package router

import (
	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/permission"
)

// RegisterManagement registers back-office endpoints.  Each is gated by its
// own manage* key so that a custom role can be scoped to one area.
func RegisterManagement(g *echo.Group, h Handlers) {
	// ---- Floors ----
	floors := mw.RequirePermission(permission.ManageFloors)
	g.GET("/floors", h.Floors.ListFloors, mw.RequirePermission(permission.ViewFloorPlan, permission.ManageFloors, permission.ManageTables))
	g.POST("/floors", h.Floors.CreateFloor, floors)
	g.PUT("/floors/:id", h.Floors.RenameFloor, floors)
	g.DELETE("/floors/:id", h.Floors.DeleteFloor, floors)

	// ---- Tables ----
	tables := mw.RequirePermission(permission.ManageTables)
	g.POST("/tables", h.Floors.CreateTable, tables)
	g.PUT("/tables/:id", h.Floors.RenameTable, tables)
	g.DELETE("/tables/:id", h.Floors.DeleteTable, tables)

	// ---- Roles ----
	roles := mw.RequirePermission(permission.ManageRoles)
	g.GET("/roles", h.Staff.ListRoles, mw.RequirePermission(permission.ManageRoles, permission.ManageEmployees))
	g.POST("/roles", h.Staff.CreateRole, roles)
	g.PUT("/roles/:id", h.Staff.UpdateRole, roles)
	g.DELETE("/roles/:id", h.Staff.DeleteRole, roles)

	// ---- Employees ----
	emps := mw.RequirePermission(permission.ManageEmployees)
	g.GET("/employees", h.Staff.ListEmployees, emps)
	g.POST("/employees", h.Staff.CreateEmployee, emps)
	g.PUT("/employees/:id/role", h.Staff.SetEmployeeRole, emps)

	// ---- Settings ----
	g.GET("/plugins", h.Staff.GetPlugins, mw.RequirePermission(permission.ViewSettings, permission.ManageSettings))
	g.PUT("/plugins", h.Staff.SetPlugins, mw.RequirePermission(permission.ManageSettings))

	// ---- Reports ----
	g.GET("/events", h.Events.Recent, mw.RequirePermission(permission.ViewReports))
}
