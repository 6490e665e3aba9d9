package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []q.LifecycleEvent
}

func (r *recorder) Publish(_ context.Context, ev q.LifecycleEvent) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

var t0 = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

type fixture struct {
	deps   Deps
	clock  *fakeClock
	events *recorder
	floors *FloorService
	orders *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := &fakeClock{now: t0}
	rec := &recorder{}
	n := 0
	var mu sync.Mutex
	d := Deps{
		Store:  repository.NewStore(model.Floor{ID: "floor-main", Name: "Main"}),
		Events: rec,
		Clock:  clk,
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%03d", n)
		},
	}
	return &fixture{deps: d, clock: clk, events: rec, floors: NewFloorService(d), orders: NewOrderService(d)}
}

func (f *fixture) table(t *testing.T, name string) model.Table {
	t.Helper()
	tb, err := f.floors.CreateTable("floor-main", name)
	if err != nil {
		t.Fatalf("create table %s: %v", name, err)
	}
	return tb
}

func (f *fixture) tableState(t *testing.T, id string) model.Table {
	t.Helper()
	tb, err := f.floors.Table(id)
	if err != nil {
		t.Fatalf("table %s: %v", id, err)
	}
	return tb
}

// servedOrder opens tableID and walks the order to served with one item.
func (f *fixture) servedOrder(t *testing.T, tableID, customer string, priceCents int64) model.Order {
	t.Helper()
	ctx := context.Background()
	o, err := f.orders.OpenTable(ctx, tableID, customer)
	if err != nil {
		t.Fatalf("open table: %v", err)
	}
	if _, ok, err := f.orders.AddItem(ctx, o.ID, model.LineItem{ProductID: "p1", Name: "Steak", Quantity: 1, PriceCents: priceCents}); err != nil || !ok {
		t.Fatalf("add item: %v %v", ok, err)
	}
	if _, ok, _ := f.orders.SendToKitchen(ctx, o.ID); !ok {
		t.Fatal("send to kitchen rejected")
	}
	o, ok, _ := f.orders.MarkServed(ctx, o.ID)
	if !ok {
		t.Fatal("mark served rejected")
	}
	return o
}
