package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/model"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// NotifyWindow is how long a notified party has to show up.
const NotifyWindow = 5 * time.Minute

// WaitlistService drives walk-in parties:
//
//	Waiting -> Notified -> Seated
//	Waiting | Notified -> Removed
//
// The notify window only drives the displayed countdown.  An entry whose
// window has run out stays Notified until staff seat or remove it.
type WaitlistService struct {
	d      Deps
	timers *countdown.Registry
}

// NewWaitlistService returns a service.  timers may be nil, in which case no
// window-closed events are published.
func NewWaitlistService(d Deps, timers *countdown.Registry) *WaitlistService {
	return &WaitlistService{d: d.withDefaults(), timers: timers}
}

// Clock returns the clock the countdown is measured against.
func (s *WaitlistService) Clock() countdown.Clock { return s.d.Clock }

// Add puts a party on the waitlist.
func (s *WaitlistService) Add(ctx context.Context, name string, partySize, quotedMins int) (model.WaitlistEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" || partySize <= 0 || quotedMins < 0 {
		return model.WaitlistEntry{}, fmt.Errorf("waitlist entry: %w", ErrInvalidInput)
	}
	e := model.WaitlistEntry{
		ID:           s.d.NewID(),
		CustomerName: name,
		PartySize:    partySize,
		QuotedMins:   quotedMins,
		Status:       model.WaitlistWaiting,
		AddedAt:      s.d.now(),
	}
	if err := s.d.Store.Update(func(tx *repository.Tx) error {
		tx.PutWaitlistEntry(e)
		return nil
	}); err != nil {
		return model.WaitlistEntry{}, err
	}
	s.d.emit(ctx, q.LifecycleEvent{Type: q.EventWaitlistAdded, EntityID: e.ID, Status: string(e.Status), Customer: e.CustomerName})
	return e, nil
}

func (s *WaitlistService) move(ctx context.Context, id string, from []model.WaitlistStatus, fn func(e *model.WaitlistEntry), typ string) (model.WaitlistEntry, bool, error) {
	var (
		out     model.WaitlistEntry
		applied bool
	)
	err := s.d.Store.Update(func(tx *repository.Tx) error {
		e, ok := tx.WaitlistEntry(id)
		if !ok {
			return fmt.Errorf("waitlist entry %s: %w", id, repository.ErrNotFound)
		}
		out = e
		allowed := false
		for _, st := range from {
			if e.Status == st {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil
		}
		fn(&e)
		tx.PutWaitlistEntry(e)
		out, applied = e, true
		return nil
	})
	if err == nil && applied {
		s.d.emit(ctx, q.LifecycleEvent{Type: typ, EntityID: out.ID, Status: string(out.Status), Customer: out.CustomerName})
	}
	return out, applied, err
}

// Notify alerts a Waiting party that a table is ready and starts its window.
func (s *WaitlistService) Notify(ctx context.Context, id string) (model.WaitlistEntry, bool, error) {
	e, applied, err := s.move(ctx, id, []model.WaitlistStatus{model.WaitlistWaiting}, func(e *model.WaitlistEntry) {
		now := s.d.now()
		e.Status = model.WaitlistNotified
		e.NotifiedAt = &now
	}, q.EventWaitlistNotified)
	if err == nil && applied && s.timers != nil {
		entry := e
		s.timers.Watch(entry.ID, entry.NotifiedAt.Add(NotifyWindow), func(rem time.Duration) {
			if rem == 0 && s.stillNotified(entry.ID) {
				s.d.emit(context.Background(), q.LifecycleEvent{
					Type: q.EventWaitlistWindowClosed, EntityID: entry.ID,
					Status: string(model.WaitlistNotified), Customer: entry.CustomerName,
				})
			}
		})
		// Seat or Remove may have cancelled before the timer existed.
		if !s.stillNotified(entry.ID) {
			s.timers.Cancel(entry.ID)
		}
	}
	return e, applied, err
}

func (s *WaitlistService) stillNotified(id string) bool {
	cur, err := s.Entry(id)
	return err == nil && cur.Status == model.WaitlistNotified
}

// Seat marks a Waiting or Notified party as seated.
func (s *WaitlistService) Seat(ctx context.Context, id string) (model.WaitlistEntry, bool, error) {
	e, applied, err := s.move(ctx, id, []model.WaitlistStatus{model.WaitlistWaiting, model.WaitlistNotified}, func(e *model.WaitlistEntry) {
		e.Status = model.WaitlistSeated
	}, q.EventWaitlistSeated)
	if applied && s.timers != nil {
		s.timers.Cancel(id)
	}
	return e, applied, err
}

// Remove takes a Waiting or Notified party off the list.
func (s *WaitlistService) Remove(ctx context.Context, id string) (model.WaitlistEntry, bool, error) {
	e, applied, err := s.move(ctx, id, []model.WaitlistStatus{model.WaitlistWaiting, model.WaitlistNotified}, func(e *model.WaitlistEntry) {
		e.Status = model.WaitlistRemoved
	}, q.EventWaitlistRemoved)
	if applied && s.timers != nil {
		s.timers.Cancel(id)
	}
	return e, applied, err
}

// Entry returns one waitlist entry.
func (s *WaitlistService) Entry(id string) (model.WaitlistEntry, error) {
	var e model.WaitlistEntry
	err := s.d.Store.View(func(tx *repository.Tx) error {
		var ok bool
		if e, ok = tx.WaitlistEntry(id); !ok {
			return fmt.Errorf("waitlist entry %s: %w", id, repository.ErrNotFound)
		}
		return nil
	})
	return e, err
}

// List returns entries in arrival order.  With activeOnly set, Seated and
// Removed entries are left out.
func (s *WaitlistService) List(activeOnly bool) []model.WaitlistEntry {
	var out []model.WaitlistEntry
	_ = s.d.Store.View(func(tx *repository.Tx) error {
		for _, e := range tx.Waitlist() {
			if activeOnly && (e.Status == model.WaitlistSeated || e.Status == model.WaitlistRemoved) {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	return out
}

// Remaining is the time left in a Notified entry's window at now.  It is
// zero for entries in any other state.
func (s *WaitlistService) Remaining(e model.WaitlistEntry, now time.Time) time.Duration {
	if e.Status != model.WaitlistNotified || e.NotifiedAt == nil {
		return 0
	}
	return countdown.Remaining(e.NotifiedAt.Add(NotifyWindow), now)
}

// Countdown renders Remaining as MM:SS.
func (s *WaitlistService) Countdown(e model.WaitlistEntry, now time.Time) string {
	return countdown.Format(s.Remaining(e, now))
}

// Deadline returns when e's window closes; ok is false if e is not Notified.
func (s *WaitlistService) Deadline(e model.WaitlistEntry) (time.Time, bool) {
	if e.Status != model.WaitlistNotified || e.NotifiedAt == nil {
		return time.Time{}, false
	}
	return e.NotifiedAt.Add(NotifyWindow), true
}
