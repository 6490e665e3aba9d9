package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/repository"
)

func TestDeleteLastFloor(t *testing.T) {
	f := newFixture(t)
	if err := f.floors.DeleteFloor("floor-main"); !errors.Is(err, repository.ErrLastFloor) {
		t.Fatalf("err = %v", err)
	}
	if n := len(f.floors.Floors()); n != 1 {
		t.Fatalf("floors = %d", n)
	}
}

func TestDeleteFloorWithTables(t *testing.T) {
	f := newFixture(t)
	patio, err := f.floors.CreateFloor("Patio")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.floors.CreateFloor("patio"); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate name err = %v", err)
	}
	p1, _ := f.floors.CreateTable(patio.ID, "P1")
	_, _ = f.floors.CreateTable(patio.ID, "P2")

	o, _ := f.orders.OpenTable(context.Background(), p1.ID, "")
	if err := f.floors.DeleteFloor(patio.ID); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("occupied floor err = %v", err)
	}
	if n := len(f.floors.Tables("Patio")); n != 2 {
		t.Fatalf("rejected delete removed tables: %d left", n)
	}

	_, _, _ = f.orders.Void(context.Background(), o.ID)
	if err := f.floors.DeleteFloor(patio.ID); err != nil {
		t.Fatal(err)
	}
	if n := len(f.floors.Tables("Patio")); n != 0 {
		t.Fatalf("tables left on deleted floor: %d", n)
	}
}

func TestRenameFloorMovesTables(t *testing.T) {
	f := newFixture(t)
	tb := f.table(t, "T1")
	if _, err := f.floors.RenameFloor("floor-main", "Dining"); err != nil {
		t.Fatal(err)
	}
	if got := f.tableState(t, tb.ID); got.Floor != "Dining" {
		t.Fatalf("table floor = %q", got.Floor)
	}
}

func TestDeleteTable(t *testing.T) {
	f := newFixture(t)
	tb := f.table(t, "T1")
	_, _ = f.orders.OpenTable(context.Background(), tb.ID, "")
	if err := f.floors.DeleteTable(tb.ID); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("occupied delete err = %v", err)
	}
	free := f.table(t, "T2")
	if err := f.floors.DeleteTable(free.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.floors.Table(free.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("deleted table still present: %v", err)
	}
}
