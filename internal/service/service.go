// Package service implements the table/order, transfer, reservation and
// waitlist lifecycles on top of the shared store, plus the floor, table,
// role and employee management they depend on.
//
// Every mutation runs inside a single repository.Store.Update call, so it is
// atomic with respect to every other mutation and leaves the store
// consistent before returning.  Transitions that the current state does not
// allow are rejected by returning applied == false with a nil error; errors
// are reserved for missing entities, invalid input and structural faults.
// Lifecycle events are published after the store lock is released.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// ErrInvalidInput is returned for malformed arguments such as an empty name
// or a non-positive amount.
var ErrInvalidInput = errors.New("invalid input")

// Deps bundles what every service needs.
type Deps struct {
	Store  *repository.Store
	Events Publisher
	Clock  countdown.Clock
	NewID  func() string
}

// withDefaults fills unset dependencies.
func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = NopPublisher{}
	}
	if d.Clock == nil {
		d.Clock = countdown.SystemClock{}
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

func (d Deps) now() time.Time { return d.Clock.Now() }

// emit publishes events in order, logging failures.
func (d Deps) emit(ctx context.Context, events ...q.LifecycleEvent) {
	stamp := d.now().UTC().Format(time.RFC3339)
	for _, ev := range events {
		if ev.OccurredAt == "" {
			ev.OccurredAt = stamp
		}
		if ev.ActorID == "" {
			ev.ActorID = q.ActorFrom(ctx)
		}
		if err := d.Events.Publish(ctx, ev); err != nil {
			log.Printf("lifecycle: publish %s for %s failed: %v", ev.Type, ev.EntityID, err)
		}
	}
}
