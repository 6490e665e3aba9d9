package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// ReservationService drives bookings: pending -> seated | cancelled | no-show.
// Every state after pending is terminal.
type ReservationService struct {
	d Deps
}

func NewReservationService(d Deps) *ReservationService {
	return &ReservationService{d: d.withDefaults()}
}

// ReservationInput carries the editable fields of a booking.
type ReservationInput struct {
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	PartySize    int       `json:"party_size"`
	Time         time.Time `json:"time"`
	Notes        string    `json:"notes"`
}

func (in ReservationInput) validate() error {
	if in.PartySize <= 0 {
		return fmt.Errorf("party size: %w", ErrInvalidInput)
	}
	if in.Time.IsZero() {
		return fmt.Errorf("reservation time: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(in.CustomerName) == "" && strings.TrimSpace(in.CustomerID) == "" {
		return fmt.Errorf("customer: %w", ErrInvalidInput)
	}
	return nil
}

// Create books a new pending reservation.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (model.Reservation, error) {
	if err := in.validate(); err != nil {
		return model.Reservation{}, err
	}
	r := model.Reservation{
		ID:           s.d.NewID(),
		CustomerID:   strings.TrimSpace(in.CustomerID),
		CustomerName: strings.TrimSpace(in.CustomerName),
		PartySize:    in.PartySize,
		Time:         in.Time,
		Status:       model.ReservationPending,
		Notes:        in.Notes,
		Source:       "local",
	}
	if err := s.d.Store.Update(func(tx *repository.Tx) error {
		tx.PutReservation(r)
		return nil
	}); err != nil {
		return model.Reservation{}, err
	}
	s.d.emit(ctx, q.LifecycleEvent{Type: q.EventReservationCreated, EntityID: r.ID, Status: string(r.Status), Customer: r.CustomerName})
	return r, nil
}

// Update edits a pending reservation.  Terminal reservations are left
// untouched and applied is false.
func (s *ReservationService) Update(id string, in ReservationInput) (model.Reservation, bool, error) {
	if err := in.validate(); err != nil {
		return model.Reservation{}, false, err
	}
	var (
		out     model.Reservation
		applied bool
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Reservation(id)
		if !ok {
			return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
		}
		out = r
		if r.Status != model.ReservationPending {
			return nil
		}
		r.CustomerID = strings.TrimSpace(in.CustomerID)
		r.CustomerName = strings.TrimSpace(in.CustomerName)
		r.PartySize = in.PartySize
		r.Time = in.Time
		r.Notes = in.Notes
		tx.PutReservation(r)
		out, applied = r, true
		return nil
	})
	return out, applied, err
}

// Seat fulfils a pending reservation.  When tableID is set that table must
// be available; when it is empty a new table is created on the first floor.
// The table is claimed through the order lifecycle in the same transaction
// that marks the reservation seated.  The reservation keeps no reference to
// the table.
func (s *ReservationService) Seat(ctx context.Context, id, tableID string) (model.Reservation, model.Order, bool, error) {
	var (
		res     model.Reservation
		order   model.Order
		table   model.Table
		applied bool
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Reservation(id)
		if !ok {
			return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
		}
		res = r
		if r.Status != model.ReservationPending {
			return nil
		}
		var t model.Table
		if tableID != "" {
			if t, ok = tx.Table(tableID); !ok {
				return fmt.Errorf("table %s: %w", tableID, repository.ErrNotFound)
			}
			if t.Status != model.TableAvailable {
				return nil
			}
		} else {
			floors := tx.Floors()
			if len(floors) == 0 {
				return fmt.Errorf("no floor to seat on: %w", repository.ErrInconsistentState)
			}
			t = newTable(s.d, floors[0], "Res "+partyLabel(r))
			tx.PutTable(t)
		}
		o, err := claimTable(tx, s.d, t, partyLabel(r), s.d.now())
		if err != nil {
			return err
		}
		o.CustomerID = r.CustomerID
		tx.PutOrder(o)
		r.Status = model.ReservationSeated
		tx.PutReservation(r)
		res, order, applied = r, o, true
		table, _ = tx.Table(t.ID)
		return nil
	})
	if err == nil && applied {
		s.d.emit(ctx,
			q.LifecycleEvent{Type: q.EventTableOpened, EntityID: table.ID, TableID: table.ID, TableName: table.Name, OrderID: order.ID, Status: string(order.Status), Customer: table.CustomerName},
			q.LifecycleEvent{Type: q.EventReservationSeated, EntityID: res.ID, TableID: table.ID, TableName: table.Name, OrderID: order.ID, Status: string(res.Status), Customer: res.CustomerName},
		)
	}
	return res, order, applied, err
}

func partyLabel(r model.Reservation) string {
	if r.CustomerName != "" {
		return r.CustomerName
	}
	return r.CustomerID
}

func (s *ReservationService) close(ctx context.Context, id string, to model.ReservationStatus, typ string) (model.Reservation, bool, error) {
	var (
		out     model.Reservation
		applied bool
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		r, ok := tx.Reservation(id)
		if !ok {
			return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
		}
		out = r
		if r.Status != model.ReservationPending {
			return nil
		}
		r.Status = to
		tx.PutReservation(r)
		out, applied = r, true
		return nil
	})
	if err == nil && applied {
		s.d.emit(ctx, q.LifecycleEvent{Type: typ, EntityID: out.ID, Status: string(out.Status), Customer: out.CustomerName})
	}
	return out, applied, err
}

// Cancel moves a pending reservation to cancelled.
func (s *ReservationService) Cancel(ctx context.Context, id string) (model.Reservation, bool, error) {
	return s.close(ctx, id, model.ReservationCancelled, q.EventReservationCancelled)
}

// MarkNoShow moves a pending reservation to no-show.
func (s *ReservationService) MarkNoShow(ctx context.Context, id string) (model.Reservation, bool, error) {
	return s.close(ctx, id, model.ReservationNoShow, q.EventReservationNoShow)
}

// Reservation returns one reservation.
func (s *ReservationService) Reservation(id string) (model.Reservation, error) {
	var r model.Reservation
	err := s.d.Store.View(func(tx *repository.Tx) error {
		var ok bool
		if r, ok = tx.Reservation(id); !ok {
			return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
		}
		return nil
	})
	return r, err
}

// List returns every reservation ordered by time.
func (s *ReservationService) List() []model.Reservation {
	var out []model.Reservation
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		out = tx.Reservations()
		return nil
	})
	return out
}

// DayBounds returns the inclusive [00:00:00.000, 23:59:59.999] range of the
// calendar day containing day, in day's location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
	return start, end
}

// ForDate returns the reservations falling on day's calendar day.  Stored
// timestamps are not modified.
func (s *ReservationService) ForDate(day time.Time) []model.Reservation {
	start, end := DayBounds(day)
	var out []model.Reservation
	for _, r := range s.List() {
		if !r.Time.Before(start) && !r.Time.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// AtRisk reports a pending reservation whose time has passed.
func AtRisk(r model.Reservation, now time.Time) bool {
	return r.Status == model.ReservationPending && r.Time.Before(now)
}

// ApplySynced merges records delivered by an external provider.  Records
// without an ID or time are skipped, unknown and seated statuses are read as
// pending, and a local reservation that already left pending is never overwritten.
// It returns the number of records stored.
func (s *ReservationService) ApplySynced(source string, records []model.Reservation) (int, error) {
	stored := 0
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		for _, in := range records {
			if strings.TrimSpace(in.ID) == "" || in.Time.IsZero() {
				continue
			}
			switch in.Status {
			case model.ReservationPending, model.ReservationCancelled, model.ReservationNoShow:
			default:
				in.Status = model.ReservationPending
			}
			if in.PartySize <= 0 {
				in.PartySize = 1
			}
			if cur, ok := tx.Reservation(in.ID); ok && cur.Status != model.ReservationPending {
				continue
			}
			in.Source = source
			tx.PutReservation(in)
			stored++
		}
		return nil
	})
	return stored, err
}
