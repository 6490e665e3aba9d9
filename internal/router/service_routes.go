package router

import (
	"github.com/labstack/echo/v4"

	mw "github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/permission"
)

// RegisterService registers the floor-service endpoints: tables, orders,
// tabs, transfer, reservations and the waitlist.
func RegisterService(g *echo.Group, h Handlers) {
	pos := mw.RequirePermission(permission.ViewPOS)
	floor := mw.RequirePermission(permission.ViewPOS, permission.ViewFloorPlan, permission.ViewOrders)

	// ---- Tables / orders ----
	g.GET("/tables", h.Floors.ListTables, floor)
	g.GET("/tables/:id", h.Floors.GetTable, floor)
	g.GET("/tables/:id/order", h.Orders.ActiveOrder, floor)
	g.POST("/tables/:id/open", h.Orders.OpenTable, pos)
	g.POST("/tables/:id/transfer", h.Orders.Transfer, mw.RequirePermission(permission.TransferTables))

	g.GET("/orders", h.Orders.List, floor)
	g.GET("/orders/:id", h.Orders.Get, floor)
	g.POST("/orders/:id/items", h.Orders.AddItem, pos)
	g.POST("/orders/:id/kitchen", h.Orders.SendToKitchen, pos)
	g.POST("/orders/:id/served", h.Orders.MarkServed, mw.RequirePermission(permission.ViewPOS, permission.ViewOrders))
	g.POST("/orders/:id/payments", h.Orders.Pay, mw.RequirePermission(permission.ProcessPayments))
	g.POST("/orders/:id/void", h.Orders.Void, mw.RequirePermission(permission.VoidOrders))

	// ---- Tabs ----
	g.GET("/tabs", h.Orders.OpenTabs, pos)
	g.GET("/tabs/:tab", h.Orders.Tab, pos)
	g.POST("/tabs", h.Orders.OpenTab, pos)

	// ---- Reservations ----
	viewRes := mw.RequirePermission(permission.ViewReservations)
	manageRes := mw.RequirePermission(permission.ManageReservations)
	g.GET("/reservations", h.Reservations.List, viewRes)
	g.GET("/reservations/sync", h.Reservations.SyncStatus, viewRes)
	g.POST("/reservations/sync", h.Reservations.RunSync, manageRes)
	g.GET("/reservations/:id", h.Reservations.Get, viewRes)
	g.POST("/reservations", h.Reservations.Create, manageRes)
	g.PUT("/reservations/:id", h.Reservations.Update, manageRes)
	g.POST("/reservations/:id/seat", h.Reservations.Seat, manageRes)
	g.POST("/reservations/:id/cancel", h.Reservations.Cancel, manageRes)
	g.POST("/reservations/:id/no-show", h.Reservations.NoShow, manageRes)

	// ---- Waitlist ----
	viewWL := mw.RequirePermission(permission.ViewWaitlist)
	manageWL := mw.RequirePermission(permission.ManageWaitlist)
	g.GET("/waitlist", h.Waitlist.List, viewWL)
	g.GET("/waitlist/:id", h.Waitlist.Get, viewWL)
	g.GET("/waitlist/:id/countdown", h.Waitlist.Countdown, viewWL)
	g.POST("/waitlist", h.Waitlist.Add, manageWL)
	g.POST("/waitlist/:id/notify", h.Waitlist.Notify, manageWL)
	g.POST("/waitlist/:id/seat", h.Waitlist.Seat, manageWL)
	g.POST("/waitlist/:id/remove", h.Waitlist.Remove, manageWL)
}
