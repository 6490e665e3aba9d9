package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// OrderService drives tables and orders:
//
//	table: available -> occupied -> available
//	order: open -> kitchen -> served -> partially-paid | paid
//	       any non-terminal -> voided
//
// A table is occupied exactly while one non-terminal order claims it.
type OrderService struct {
	d Deps
}

func NewOrderService(d Deps) *OrderService {
	return &OrderService{d: d.withDefaults()}
}

// inconsistent logs and wraps a structural fault on table t.
func inconsistent(t model.Table, active int) error {
	log.Printf("lifecycle: table %s (%s) is %s with %d active orders", t.ID, t.Name, t.Status, active)
	return fmt.Errorf("table %s: %w", t.ID, repository.ErrInconsistentState)
}

// claimTable opens a new order on an available table inside tx.
func claimTable(tx *repository.Tx, d Deps, t model.Table, customerName string, now time.Time) (model.Order, error) {
	if active := tx.ActiveOrdersForTable(t.ID); len(active) != 0 {
		return model.Order{}, inconsistent(t, len(active))
	}
	o := model.Order{
		ID:           d.NewID(),
		Status:       model.OrderOpen,
		TableID:      t.ID,
		CustomerName: customerName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	tx.PutOrder(o)
	t.Status = model.TableOccupied
	t.CustomerName = customerName
	tx.PutTable(t)
	return o, nil
}

// releaseTable frees the table bound to o, if any.
func releaseTable(tx *repository.Tx, o model.Order) (model.Table, bool) {
	if o.TableID == "" {
		return model.Table{}, false
	}
	t, ok := tx.Table(o.TableID)
	if !ok {
		return model.Table{}, false
	}
	t.Status = model.TableAvailable
	t.CustomerName = ""
	tx.PutTable(t)
	return t, true
}

// OpenTable starts an order on an available table, or returns the order
// already claiming an occupied one.
func (s *OrderService) OpenTable(ctx context.Context, tableID, customerName string) (model.Order, error) {
	var (
		order   model.Order
		created bool
		table   model.Table
	)
	customerName = strings.TrimSpace(customerName)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		t, ok := tx.Table(tableID)
		if !ok {
			return fmt.Errorf("table %s: %w", tableID, repository.ErrNotFound)
		}
		table = t
		active := tx.ActiveOrdersForTable(t.ID)
		switch {
		case t.Status == model.TableOccupied && len(active) == 1:
			order = active[0]
			return nil
		case t.Status == model.TableAvailable && len(active) == 0:
			o, err := claimTable(tx, s.d, t, customerName, s.d.now())
			if err != nil {
				return err
			}
			order, created = o, true
			return nil
		default:
			return inconsistent(t, len(active))
		}
	})
	if err != nil {
		return model.Order{}, err
	}
	if created {
		s.d.emit(ctx, q.LifecycleEvent{
			Type: q.EventTableOpened, EntityID: table.ID, TableID: table.ID, TableName: table.Name,
			OrderID: order.ID, Status: string(order.Status), Customer: customerName,
		})
	}
	return order, nil
}

// OpenTab starts an order that is not bound to a table.
func (s *OrderService) OpenTab(ctx context.Context, customerName string) (model.Order, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return model.Order{}, fmt.Errorf("customer name: %w", ErrInvalidInput)
	}
	now := s.d.now()
	id := s.d.NewID()
	o := model.Order{
		ID:           id,
		TabID:        tabID(id),
		Status:       model.OrderOpen,
		CustomerName: customerName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.d.Store.Update(func(tx *repository.Tx) error {
		tx.PutOrder(o)
		return nil
	}); err != nil {
		return model.Order{}, err
	}
	s.d.emit(ctx, q.LifecycleEvent{Type: q.EventTabOpened, EntityID: o.TabID, OrderID: o.ID, Status: string(o.Status), Customer: customerName})
	return o, nil
}

// tabID derives a short, human-readable tab identifier from an order ID.
func tabID(orderID string) string {
	id := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(id) > 6 {
		id = id[:6]
	}
	return "TAB-" + id
}

// mutate loads order id, lets fn change it, and stores the result when fn
// reports applied.  fn runs inside the store transaction.
func (s *OrderService) mutate(id string, fn func(tx *repository.Tx, o *model.Order) (bool, error)) (model.Order, bool, error) {
	var (
		out     model.Order
		applied bool
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		o, ok := tx.Order(id)
		if !ok {
			return fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
		}
		ok, err := fn(tx, &o)
		if err != nil {
			return err
		}
		if ok {
			o.UpdatedAt = s.d.now()
			tx.PutOrder(o)
		}
		out, applied = o, ok
		return nil
	})
	return out, applied, err
}

func (s *OrderService) event(tx *repository.Tx, typ string, o model.Order) q.LifecycleEvent {
	ev := q.LifecycleEvent{Type: typ, EntityID: o.ID, OrderID: o.ID, TableID: o.TableID, Status: string(o.Status), Customer: o.CustomerName}
	if tx != nil && o.TableID != "" {
		if t, ok := tx.Table(o.TableID); ok {
			ev.TableName = t.Name
		}
	}
	return ev
}

// AddItem appends a cart line, merging it with an existing line for the same
// product.  Allowed in any non-terminal status.
func (s *OrderService) AddItem(ctx context.Context, orderID string, item model.LineItem) (model.Order, bool, error) {
	if item.Quantity <= 0 || item.PriceCents < 0 || strings.TrimSpace(item.Name) == "" {
		return model.Order{}, false, fmt.Errorf("line item: %w", ErrInvalidInput)
	}
	return s.mutate(orderID, func(_ *repository.Tx, o *model.Order) (bool, error) {
		if o.Status.Terminal() {
			return false, nil
		}
		merged := false
		if item.ProductID != "" {
			for i := range o.Items {
				if o.Items[i].ProductID == item.ProductID && o.Items[i].PriceCents == item.PriceCents {
					o.Items[i].Quantity += item.Quantity
					merged = true
					break
				}
			}
		}
		if !merged {
			o.Items = append(o.Items, item)
		}
		o.Recalculate()
		return true, nil
	})
}

// simple moves an order from one status to another and publishes typ.
func (s *OrderService) simple(ctx context.Context, orderID string, from, to model.OrderStatus, typ string) (model.Order, bool, error) {
	var ev q.LifecycleEvent
	o, applied, err := s.mutate(orderID, func(tx *repository.Tx, o *model.Order) (bool, error) {
		if o.Status != from {
			return false, nil
		}
		o.Status = to
		ev = s.event(tx, typ, *o)
		return true, nil
	})
	if err == nil && applied {
		s.d.emit(ctx, ev)
	}
	return o, applied, err
}

// SendToKitchen moves an open order to kitchen.  There is no way back.
func (s *OrderService) SendToKitchen(ctx context.Context, orderID string) (model.Order, bool, error) {
	return s.simple(ctx, orderID, model.OrderOpen, model.OrderKitchen, q.EventOrderSentToKitchen)
}

// MarkServed moves a kitchen order to served.
func (s *OrderService) MarkServed(ctx context.Context, orderID string) (model.Order, bool, error) {
	return s.simple(ctx, orderID, model.OrderKitchen, model.OrderServed, q.EventOrderServed)
}

// Pay records a payment on a served or partially-paid order.  Once the
// cumulative payments cover the total the order becomes paid and its table
// is released with the customer name cleared; otherwise it becomes
// partially-paid and keeps the table.
func (s *OrderService) Pay(ctx context.Context, orderID string, amountCents int64) (model.Order, bool, error) {
	if amountCents <= 0 {
		return model.Order{}, false, fmt.Errorf("payment amount: %w", ErrInvalidInput)
	}
	var events []q.LifecycleEvent
	o, applied, err := s.mutate(orderID, func(tx *repository.Tx, o *model.Order) (bool, error) {
		if o.Status != model.OrderServed && o.Status != model.OrderPartiallyPaid {
			return false, nil
		}
		o.PaidCents += amountCents
		if o.PaidCents < o.TotalCents {
			o.Status = model.OrderPartiallyPaid
			ev := s.event(tx, q.EventOrderPartiallyPaid, *o)
			ev.AmountCents = amountCents
			events = append(events, ev)
			return true, nil
		}
		o.Status = model.OrderPaid
		ev := s.event(tx, q.EventOrderPaid, *o)
		ev.AmountCents = amountCents
		events = append(events, ev)
		if t, ok := releaseTable(tx, *o); ok {
			events = append(events, q.LifecycleEvent{Type: q.EventTableReleased, EntityID: t.ID, TableID: t.ID, TableName: t.Name, OrderID: o.ID})
		}
		return true, nil
	})
	if err == nil && applied {
		s.d.emit(ctx, events...)
	}
	return o, applied, err
}

// Void cancels a non-terminal order and releases its table.
func (s *OrderService) Void(ctx context.Context, orderID string) (model.Order, bool, error) {
	var events []q.LifecycleEvent
	o, applied, err := s.mutate(orderID, func(tx *repository.Tx, o *model.Order) (bool, error) {
		if o.Status.Terminal() {
			return false, nil
		}
		o.Status = model.OrderVoided
		events = append(events, s.event(tx, q.EventOrderVoided, *o))
		if t, ok := releaseTable(tx, *o); ok {
			events = append(events, q.LifecycleEvent{Type: q.EventTableReleased, EntityID: t.ID, TableID: t.ID, TableName: t.Name, OrderID: o.ID})
		}
		return true, nil
	})
	if err == nil && applied {
		s.d.emit(ctx, events...)
	}
	return o, applied, err
}

// Order returns a single order.
func (s *OrderService) Order(orderID string) (model.Order, error) {
	var o model.Order
	err := s.d.Store.View(func(tx *repository.Tx) error {
		var ok bool
		if o, ok = tx.Order(orderID); !ok {
			return fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
		}
		return nil
	})
	return o, err
}

// ActiveOrderForTable returns the order claiming tableID.  ok is false when
// the table is available.
func (s *OrderService) ActiveOrderForTable(tableID string) (order model.Order, ok bool, err error) {
	err = s.d.Store.View(func(tx *repository.Tx) error {
		t, found := tx.Table(tableID)
		if !found {
			return fmt.Errorf("table %s: %w", tableID, repository.ErrNotFound)
		}
		active := tx.ActiveOrdersForTable(tableID)
		switch {
		case t.Status == model.TableAvailable && len(active) == 0:
			return nil
		case t.Status == model.TableOccupied && len(active) == 1:
			order, ok = active[0], true
			return nil
		}
		return inconsistent(t, len(active))
	})
	return order, ok, err
}

// Orders lists orders, optionally filtered by status.
func (s *OrderService) Orders(status model.OrderStatus) []model.Order {
	var out []model.Order
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		for _, o := range tx.Orders() {
			if status == "" || o.Status == status {
				out = append(out, o)
			}
		}
		return nil
	})
	return out
}

// OpenTabs lists partially-paid orders that are not bound to a table.
func (s *OrderService) OpenTabs() []model.Order {
	var out []model.Order
	for _, o := range s.Orders(model.OrderPartiallyPaid) {
		if o.TableID == "" {
			out = append(out, o)
		}
	}
	return out
}

// Tab finds an unbound order by its tab identifier.
func (s *OrderService) Tab(tab string) (model.Order, error) {
	tab = strings.ToUpper(strings.TrimSpace(tab))
	for _, o := range s.Orders("") {
		if o.TableID == "" && o.TabID == tab {
			return o, nil
		}
	}
	return model.Order{}, fmt.Errorf("tab %s: %w", tab, repository.ErrNotFound)
}

// CheckConsistency scans every table and reports the first one whose status
// disagrees with its claiming orders.
func (s *OrderService) CheckConsistency() error {
	return s.d.Store.View(checkTables)
}

// AssertConsistency makes every store update verify the table/order pairing
// before it commits, panicking on a violation.  Meant for development runs.
func (s *OrderService) AssertConsistency() {
	s.d.Store.SetCheck(checkTables)
}

func checkTables(tx *repository.Tx) error {
	for _, t := range tx.Tables() {
		active := tx.ActiveOrdersForTable(t.ID)
		want := model.TableAvailable
		if len(active) > 0 {
			want = model.TableOccupied
		}
		if len(active) > 1 || t.Status != want {
			return inconsistent(t, len(active))
		}
	}
	return nil
}
