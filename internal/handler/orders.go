package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

// OrderHandler exposes the table, tab and order lifecycle.
type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type customerReq struct {
	CustomerName string `json:"customer_name"`
}

// OpenTable handles POST /v1/tables/:id/open.  An occupied table returns
// its current order.
func (h *OrderHandler) OpenTable(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	o, err := h.Orders.OpenTable(c.Request().Context(), c.Param("id"), req.CustomerName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// ActiveOrder handles GET /v1/tables/:id/order.
func (h *OrderHandler) ActiveOrder(c echo.Context) error {
	o, ok, err := h.Orders.ActiveOrderForTable(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table has no active order"})
	}
	return c.JSON(http.StatusOK, o)
}

type transferReq struct {
	TargetTableID string `json:"target_table_id"`
}

// Transfer handles POST /v1/tables/:id/transfer.
func (h *OrderHandler) Transfer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil || req.TargetTableID == "" {
		return badBody(c)
	}
	applied, err := h.Orders.Transfer(c.Request().Context(), c.Param("id"), req.TargetTableID)
	if err != nil {
		return fail(c, err)
	}
	if !applied {
		return c.JSON(http.StatusConflict, echo.Map{"error": "transfer rejected", "transferred": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"transferred": true})
}

// OpenTab handles POST /v1/tabs.
func (h *OrderHandler) OpenTab(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	o, err := h.Orders.OpenTab(c.Request().Context(), req.CustomerName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// OpenTabs handles GET /v1/tabs.
func (h *OrderHandler) OpenTabs(c echo.Context) error {
	return list(c, h.Orders.OpenTabs())
}

// Tab handles GET /v1/tabs/:tab.
func (h *OrderHandler) Tab(c echo.Context) error {
	o, err := h.Orders.Tab(c.Param("tab"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// List handles GET /v1/orders?status=.
func (h *OrderHandler) List(c echo.Context) error {
	return list(c, h.Orders.Orders(model.OrderStatus(c.QueryParam("status"))))
}

// Get handles GET /v1/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	o, err := h.Orders.Order(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// AddItem handles POST /v1/orders/:id/items.
func (h *OrderHandler) AddItem(c echo.Context) error {
	var item model.LineItem
	if err := c.Bind(&item); err != nil {
		return badBody(c)
	}
	o, applied, err := h.Orders.AddItem(c.Request().Context(), c.Param("id"), item)
	return result(c, o, applied, err)
}

// SendToKitchen handles POST /v1/orders/:id/kitchen.
func (h *OrderHandler) SendToKitchen(c echo.Context) error {
	o, applied, err := h.Orders.SendToKitchen(c.Request().Context(), c.Param("id"))
	return result(c, o, applied, err)
}

// MarkServed handles POST /v1/orders/:id/served.
func (h *OrderHandler) MarkServed(c echo.Context) error {
	o, applied, err := h.Orders.MarkServed(c.Request().Context(), c.Param("id"))
	return result(c, o, applied, err)
}

type payReq struct {
	AmountCents int64 `json:"amount_cents"`
}

// Pay handles POST /v1/orders/:id/payments.
func (h *OrderHandler) Pay(c echo.Context) error {
	var req payReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	o, applied, err := h.Orders.Pay(c.Request().Context(), c.Param("id"), req.AmountCents)
	return result(c, o, applied, err)
}

// Void handles POST /v1/orders/:id/void.
func (h *OrderHandler) Void(c echo.Context) error {
	o, applied, err := h.Orders.Void(c.Request().Context(), c.Param("id"))
	return result(c, o, applied, err)
}
