package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Store is the in-memory single source of truth for a running terminal
// group.  Reads and writes go through View and Update; Update runs its
// callback under an exclusive lock so no two mutations interleave, and rolls
// back every write made by the callback if it returns an error.
type Store struct {
	mu sync.RWMutex

	floors       []model.Floor
	tables       map[string]model.Table
	orders       map[string]model.Order
	reservations map[string]model.Reservation
	waitlist     map[string]model.WaitlistEntry
	roles        map[string]model.Role
	employees    map[string]model.Employee
	plugins      model.Plugins

	check func(tx *Tx) error
}

// NewStore returns an empty store with a single floor named defaultFloor.
func NewStore(defaultFloor model.Floor) *Store {
	return &Store{
		floors:       []model.Floor{defaultFloor},
		tables:       map[string]model.Table{},
		orders:       map[string]model.Order{},
		reservations: map[string]model.Reservation{},
		waitlist:     map[string]model.WaitlistEntry{},
		roles:        map[string]model.Role{},
		employees:    map[string]model.Employee{},
	}
}

// Tx is a handle on the store valid only inside a View or Update callback.
// Getters return copies; writes go through the Put and Delete methods.
type Tx struct {
	s        *Store
	writable bool
	undo     []func()
}

// View runs fn with shared read access.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// SetCheck installs an assertion run at the end of every successful Update.
// A failing check undoes the update and panics.  Pass nil to remove it.
func (s *Store) SetCheck(check func(tx *Tx) error) {
	s.mu.Lock()
	s.check = check
	s.mu.Unlock()
}

// Update runs fn with exclusive access.  If fn returns an error every write
// it made is undone before the lock is released.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &Tx{s: s, writable: true}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if s.check != nil {
		if err := s.check(&Tx{s: s}); err != nil {
			tx.rollback()
			panic(fmt.Sprintf("repository: check failed after update: %v", err))
		}
	}
	return nil
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("repository: write inside View")
	}
}

// ---- floors ----

// Floors returns the floors in creation order.
func (tx *Tx) Floors() []model.Floor {
	return append([]model.Floor(nil), tx.s.floors...)
}

// Floor returns the floor with the given ID.
func (tx *Tx) Floor(id string) (model.Floor, bool) {
	for _, f := range tx.s.floors {
		if f.ID == id {
			return f, true
		}
	}
	return model.Floor{}, false
}

// PutFloor inserts or replaces a floor.
func (tx *Tx) PutFloor(f model.Floor) {
	tx.mustWrite()
	prev := append([]model.Floor(nil), tx.s.floors...)
	tx.undo = append(tx.undo, func() { tx.s.floors = prev })
	for i := range tx.s.floors {
		if tx.s.floors[i].ID == f.ID {
			tx.s.floors[i] = f
			return
		}
	}
	tx.s.floors = append(tx.s.floors, f)
}

// DeleteFloor removes a floor.  Callers enforce the last-floor rule.
func (tx *Tx) DeleteFloor(id string) {
	tx.mustWrite()
	prev := append([]model.Floor(nil), tx.s.floors...)
	tx.undo = append(tx.undo, func() { tx.s.floors = prev })
	out := tx.s.floors[:0:0]
	for _, f := range tx.s.floors {
		if f.ID != id {
			out = append(out, f)
		}
	}
	tx.s.floors = out
}

// ---- generic map helpers ----

func put[T any](tx *Tx, m map[string]T, id string, v T) {
	tx.mustWrite()
	old, had := m[id]
	tx.undo = append(tx.undo, func() {
		if had {
			m[id] = old
		} else {
			delete(m, id)
		}
	})
	m[id] = v
}

func del[T any](tx *Tx, m map[string]T, id string) {
	tx.mustWrite()
	old, had := m[id]
	if !had {
		return
	}
	tx.undo = append(tx.undo, func() { m[id] = old })
	delete(m, id)
}

func values[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ---- tables ----

// Table returns the table with the given ID.
func (tx *Tx) Table(id string) (model.Table, bool) {
	t, ok := tx.s.tables[id]
	return t, ok
}

func (tx *Tx) PutTable(t model.Table) { put(tx, tx.s.tables, t.ID, t) }
func (tx *Tx) DeleteTable(id string)  { del(tx, tx.s.tables, id) }

// Tables returns every table ordered by floor then name.
func (tx *Tx) Tables() []model.Table {
	return values(tx.s.tables, func(a, b model.Table) bool {
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		return a.Name < b.Name
	})
}

// ---- orders ----

// Order returns the order with the given ID.
func (tx *Tx) Order(id string) (model.Order, bool) {
	o, ok := tx.s.orders[id]
	o.Items = append([]model.LineItem(nil), o.Items...)
	return o, ok
}

// PutOrder stores o, copying its item slice so callers cannot alias it.
func (tx *Tx) PutOrder(o model.Order) {
	o.Items = append([]model.LineItem(nil), o.Items...)
	put(tx, tx.s.orders, o.ID, o)
}

// Orders returns every order, oldest first.
func (tx *Tx) Orders() []model.Order {
	out := values(tx.s.orders, func(a, b model.Order) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	for i := range out {
		out[i].Items = append([]model.LineItem(nil), out[i].Items...)
	}
	return out
}

// ActiveOrdersForTable returns the non-terminal orders claiming tableID.
// More than one entry is a structural fault.
func (tx *Tx) ActiveOrdersForTable(tableID string) []model.Order {
	var out []model.Order
	for _, o := range tx.s.orders {
		if o.TableID == tableID && !o.Status.Terminal() {
			o.Items = append([]model.LineItem(nil), o.Items...)
			out = append(out, o)
		}
	}
	return out
}

// ---- reservations ----

func (tx *Tx) Reservation(id string) (model.Reservation, bool) {
	r, ok := tx.s.reservations[id]
	return r, ok
}
func (tx *Tx) PutReservation(r model.Reservation) { put(tx, tx.s.reservations, r.ID, r) }

// Reservations returns every reservation ordered by time.
func (tx *Tx) Reservations() []model.Reservation {
	return values(tx.s.reservations, func(a, b model.Reservation) bool {
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.ID < b.ID
	})
}

// ---- waitlist ----

func (tx *Tx) WaitlistEntry(id string) (model.WaitlistEntry, bool) {
	e, ok := tx.s.waitlist[id]
	return e, ok
}
func (tx *Tx) PutWaitlistEntry(e model.WaitlistEntry) { put(tx, tx.s.waitlist, e.ID, e) }

// Waitlist returns every entry in arrival order.
func (tx *Tx) Waitlist() []model.WaitlistEntry {
	return values(tx.s.waitlist, func(a, b model.WaitlistEntry) bool {
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.Before(b.AddedAt)
		}
		return a.ID < b.ID
	})
}

// ---- roles & employees ----

// Role returns a copy of the role with the given ID.
func (tx *Tx) Role(id string) (model.Role, bool) {
	r, ok := tx.s.roles[id]
	if ok {
		r.Permissions = copyPerms(r.Permissions)
	}
	return r, ok
}

func copyPerms(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// PutRole stores r with its own copy of the permission map.
func (tx *Tx) PutRole(r model.Role) {
	r.Permissions = copyPerms(r.Permissions)
	put(tx, tx.s.roles, r.ID, r)
}
func (tx *Tx) DeleteRole(id string) { del(tx, tx.s.roles, id) }

// Roles returns every role ordered by name.
func (tx *Tx) Roles() []model.Role {
	out := values(tx.s.roles, func(a, b model.Role) bool { return a.Name < b.Name })
	for i := range out {
		out[i].Permissions = copyPerms(out[i].Permissions)
	}
	return out
}

// Employee returns the employee with the given ID.
func (tx *Tx) Employee(id string) (model.Employee, bool) {
	e, ok := tx.s.employees[id]
	return e, ok
}

func (tx *Tx) PutEmployee(e model.Employee) { put(tx, tx.s.employees, e.ID, e) }

// Employees returns every employee ordered by name.
func (tx *Tx) Employees() []model.Employee {
	return values(tx.s.employees, func(a, b model.Employee) bool { return a.Name < b.Name })
}

// ---- plugins ----

func (tx *Tx) Plugins() model.Plugins { return tx.s.plugins }

// SetPlugins replaces the plugin activation flags.
func (tx *Tx) SetPlugins(p model.Plugins) {
	tx.mustWrite()
	prev := tx.s.plugins
	tx.undo = append(tx.undo, func() { tx.s.plugins = prev })
	tx.s.plugins = p
}
