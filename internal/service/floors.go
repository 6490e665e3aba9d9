package service

import (
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// FloorService manages floors and the tables on them.  At least one floor
// always exists, and a table can only be removed while it is available.
type FloorService struct {
	d Deps
}

func NewFloorService(d Deps) *FloorService {
	return &FloorService{d: d.withDefaults()}
}

func floorByName(tx *repository.Tx, name string) (model.Floor, bool) {
	for _, f := range tx.Floors() {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return model.Floor{}, false
}

// Floors lists every floor in creation order.
func (s *FloorService) Floors() []model.Floor {
	var out []model.Floor
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		out = tx.Floors()
		return nil
	})
	return out
}

// CreateFloor adds a floor with a unique name.
func (s *FloorService) CreateFloor(name string) (model.Floor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Floor{}, fmt.Errorf("floor name: %w", ErrInvalidInput)
	}
	f := model.Floor{ID: s.d.NewID(), Name: name}
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		if _, dup := floorByName(tx, name); dup {
			return fmt.Errorf("floor %q: %w", name, repository.ErrConflict)
		}
		tx.PutFloor(f)
		return nil
	})
	return f, err
}

// RenameFloor renames a floor and the floor name on its tables.
func (s *FloorService) RenameFloor(id, name string) (model.Floor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Floor{}, fmt.Errorf("floor name: %w", ErrInvalidInput)
	}
	var out model.Floor
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		f, ok := tx.Floor(id)
		if !ok {
			return fmt.Errorf("floor %s: %w", id, repository.ErrNotFound)
		}
		if other, dup := floorByName(tx, name); dup && other.ID != id {
			return fmt.Errorf("floor %q: %w", name, repository.ErrConflict)
		}
		for _, t := range tx.Tables() {
			if t.Floor == f.Name {
				t.Floor = name
				tx.PutTable(t)
			}
		}
		f.Name = name
		tx.PutFloor(f)
		out = f
		return nil
	})
	return out, err
}

// DeleteFloor removes a floor together with its tables.  The last floor
// cannot be deleted, nor can a floor with an occupied table.
func (s *FloorService) DeleteFloor(id string) error {
	return s.d.Store.Update(func(tx *repository.Tx) error {
		f, ok := tx.Floor(id)
		if !ok {
			return fmt.Errorf("floor %s: %w", id, repository.ErrNotFound)
		}
		if len(tx.Floors()) <= 1 {
			return repository.ErrLastFloor
		}
		for _, t := range tx.Tables() {
			if t.Floor != f.Name {
				continue
			}
			if t.Status != model.TableAvailable {
				return fmt.Errorf("floor %s has occupied table %s: %w", f.Name, t.Name, repository.ErrConflict)
			}
			tx.DeleteTable(t.ID)
		}
		tx.DeleteFloor(id)
		return nil
	})
}

// Tables lists tables, optionally restricted to one floor name.
func (s *FloorService) Tables(floor string) []model.Table {
	var out []model.Table
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		for _, t := range tx.Tables() {
			if floor == "" || strings.EqualFold(t.Floor, floor) {
				out = append(out, t)
			}
		}
		return nil
	})
	return out
}

// Table returns one table.
func (s *FloorService) Table(id string) (model.Table, error) {
	var t model.Table
	err := s.d.Store.View(func(tx *repository.Tx) error {
		var ok bool
		if t, ok = tx.Table(id); !ok {
			return fmt.Errorf("table %s: %w", id, repository.ErrNotFound)
		}
		return nil
	})
	return t, err
}

// newTable builds an available table on floor f.
func newTable(d Deps, f model.Floor, name string) model.Table {
	return model.Table{ID: d.NewID(), Name: name, Floor: f.Name, Status: model.TableAvailable}
}

// CreateTable adds an available table to the floor with the given ID.
func (s *FloorService) CreateTable(floorID, name string) (model.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Table{}, fmt.Errorf("table name: %w", ErrInvalidInput)
	}
	var out model.Table
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		f, ok := tx.Floor(floorID)
		if !ok {
			return fmt.Errorf("floor %s: %w", floorID, repository.ErrNotFound)
		}
		out = newTable(s.d, f, name)
		tx.PutTable(out)
		return nil
	})
	return out, err
}

// RenameTable changes a table's display name.
func (s *FloorService) RenameTable(id, name string) (model.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Table{}, fmt.Errorf("table name: %w", ErrInvalidInput)
	}
	var out model.Table
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		t, ok := tx.Table(id)
		if !ok {
			return fmt.Errorf("table %s: %w", id, repository.ErrNotFound)
		}
		t.Name = name
		tx.PutTable(t)
		out = t
		return nil
	})
	return out, err
}

// DeleteTable removes an available table.
func (s *FloorService) DeleteTable(id string) error {
	return s.d.Store.Update(func(tx *repository.Tx) error {
		t, ok := tx.Table(id)
		if !ok {
			return fmt.Errorf("table %s: %w", id, repository.ErrNotFound)
		}
		if t.Status != model.TableAvailable || len(tx.ActiveOrdersForTable(id)) != 0 {
			return fmt.Errorf("table %s is occupied: %w", t.Name, repository.ErrConflict)
		}
		tx.DeleteTable(id)
		return nil
	})
}
