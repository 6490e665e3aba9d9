package service

import (
	"context"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, c, d := f.table(t, "A"), f.table(t, "C"), f.table(t, "D")
	oa, _ := f.orders.OpenTable(ctx, a.ID, "Ng")
	oc, _ := f.orders.OpenTable(ctx, c.ID, "Ruiz")

	if ok, err := f.orders.Transfer(ctx, a.ID, c.ID); ok || err != nil {
		t.Fatalf("onto occupied: %v %v", ok, err)
	}
	if got, _, _ := f.orders.ActiveOrderForTable(c.ID); got.ID != oc.ID {
		t.Fatalf("occupied target changed: %s", got.ID)
	}

	if ok, err := f.orders.Transfer(ctx, a.ID, d.ID); !ok || err != nil {
		t.Fatalf("onto available: %v %v", ok, err)
	}
	src, dst := f.tableState(t, a.ID), f.tableState(t, d.ID)
	if src.Status != model.TableAvailable || src.CustomerName != "" {
		t.Fatalf("source = %+v", src)
	}
	if dst.Status != model.TableOccupied || dst.CustomerName != "Ng" {
		t.Fatalf("target = %+v", dst)
	}
	if got, ok, _ := f.orders.ActiveOrderForTable(d.ID); !ok || got.ID != oa.ID {
		t.Fatalf("order not moved: %v", got.ID)
	}
	if err := f.orders.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestTransferNoOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.table(t, "A"), f.table(t, "B")
	_, _ = f.orders.OpenTable(ctx, a.ID, "")

	tests := []struct {
		name     string
		src, dst string
	}{
		{"same table", a.ID, a.ID},
		{"missing source", "ghost", b.ID},
		{"missing target", a.ID, "ghost"},
		{"empty source", b.ID, a.ID},
	}
	for _, tt := range tests {
		if ok, err := f.orders.Transfer(ctx, tt.src, tt.dst); ok || err != nil {
			t.Errorf("%s: %v %v", tt.name, ok, err)
		}
	}
	// available source onto available target
	c := f.table(t, "C")
	if ok, err := f.orders.Transfer(ctx, b.ID, c.ID); ok || err != nil {
		t.Fatalf("empty source onto available: %v %v", ok, err)
	}
}

func TestDragState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c := f.table(t, "A"), f.table(t, "B"), f.table(t, "C")
	_, _ = f.orders.OpenTable(ctx, a.ID, "")
	_, _ = f.orders.OpenTable(ctx, b.ID, "")

	var ds DragState
	ds.Hover(f.tableState(t, c.ID))
	if ds.Phase != DragNone {
		t.Fatalf("hover without drag: %s", ds.Phase)
	}

	ds.Begin(a.ID)
	ds.Hover(f.tableState(t, b.ID))
	if ds.Phase != DragInvalidTarget {
		t.Fatalf("occupied hover: %s", ds.Phase)
	}
	ds.Hover(f.tableState(t, a.ID))
	if ds.Phase != DragInvalidTarget {
		t.Fatalf("self hover: %s", ds.Phase)
	}
	ds.Hover(f.tableState(t, c.ID))
	if ds.Phase != DragValidTarget {
		t.Fatalf("available hover: %s", ds.Phase)
	}
	ds.Leave()
	if ds.Phase != Dragging || ds.Target != "" {
		t.Fatalf("leave: %+v", ds)
	}

	ok, err := ds.Drop(ctx, f.orders, b.ID)
	if ok || err != nil || ds.Phase != DragNone {
		t.Fatalf("drop on occupied: %v %v %s", ok, err, ds.Phase)
	}
	if ok, _ := ds.Drop(ctx, f.orders, c.ID); ok {
		t.Fatal("drop without drag applied")
	}

	ds.Begin(a.ID)
	ok, err = ds.Drop(ctx, f.orders, c.ID)
	if !ok || err != nil || ds.Phase != DragNone {
		t.Fatalf("drop on available: %v %v %s", ok, err, ds.Phase)
	}

	ds.Begin(c.ID)
	ds.Cancel()
	if ds != (DragState{}) {
		t.Fatalf("cancel: %+v", ds)
	}
}
