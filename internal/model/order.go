package model

import "time"

// OrderStatus tracks an order from creation to settlement.
type OrderStatus string

const (
	OrderOpen          OrderStatus = "open"
	OrderKitchen       OrderStatus = "kitchen"
	OrderServed        OrderStatus = "served"
	OrderPartiallyPaid OrderStatus = "partially-paid"
	OrderPaid          OrderStatus = "paid"
	OrderVoided        OrderStatus = "voided"
)

// Terminal reports whether no further transition can leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderVoided
}

// LineItem is one cart line.  Prices are in cents.
type LineItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// Order is an open check, either bound to a table or a walk-up tab.
//
// Fields:
//  ID          – stable identifier.
//  TabID       – short identifier for unbound orders (empty when TableID set).
//  Items       – cart lines.
//  TotalCents  – sum of Quantity*PriceCents over Items.
//  PaidCents   – cumulative payments received.
//  Status      – lifecycle state.
//  TableID     – bound table, empty for tabs.
//  CustomerID  – optional customer reference.
//  CustomerName – name shown on the table or tab.
//  CreatedAt   – when the order was opened.
//  UpdatedAt   – last status or content change.
type Order struct {
	ID           string      `json:"id"`
	TabID        string      `json:"tab_id,omitempty"`
	Items        []LineItem  `json:"items"`
	TotalCents   int64       `json:"total_cents"`
	PaidCents    int64       `json:"paid_cents"`
	Status       OrderStatus `json:"status"`
	TableID      string      `json:"table_id,omitempty"`
	CustomerID   string      `json:"customer_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Recalculate refreshes TotalCents from the line items.
func (o *Order) Recalculate() {
	var total int64
	for _, it := range o.Items {
		total += int64(it.Quantity) * it.PriceCents
	}
	o.TotalCents = total
}
