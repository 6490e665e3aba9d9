package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ProviderNone is the reservation system kind when no provider is set up.
const ProviderNone = "none"

// ErrSyncDisabled is returned by Sync when no provider is configured.
var ErrSyncDisabled = errors.New("reservation sync disabled")

// Syncer is the external reservation-provider collaborator.  Sync must be
// safe to call repeatedly.
type Syncer interface {
	Kind() string
	Sync(ctx context.Context) error
}

// StampStore persists the time of the last successful sync.
type StampStore interface {
	Load(ctx context.Context) (time.Time, bool, error)
	Save(ctx context.Context, t time.Time) error
}

// MemoryStamp keeps the stamp in process memory.
type MemoryStamp struct {
	mu sync.Mutex
	t  time.Time
}

func (m *MemoryStamp) Load(context.Context) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t, !m.t.IsZero(), nil
}

func (m *MemoryStamp) Save(_ context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = t
	return nil
}

// SyncTracker wraps a Syncer and records the syncing flag and the time of
// the last success.  Overlapping calls are allowed and not coalesced; a
// failed sync leaves the recorded stamp untouched.
type SyncTracker struct {
	syncer   Syncer
	stamps   StampStore
	clock    countdown.Clock
	inFlight atomic.Int32
}

// NewSyncTracker returns a tracker.  A nil syncer means kind "none".
func NewSyncTracker(syncer Syncer, stamps StampStore, clock countdown.Clock) *SyncTracker {
	if stamps == nil {
		stamps = &MemoryStamp{}
	}
	if clock == nil {
		clock = countdown.SystemClock{}
	}
	return &SyncTracker{syncer: syncer, stamps: stamps, clock: clock}
}

// Kind reports the provider kind.
func (t *SyncTracker) Kind() string {
	if t.syncer == nil {
		return ProviderNone
	}
	return t.syncer.Kind()
}

// Syncing reports whether at least one sync is running.
func (t *SyncTracker) Syncing() bool { return t.inFlight.Load() > 0 }

// LastSync returns the last successful sync time, or nil.
func (t *SyncTracker) LastSync(ctx context.Context) (*time.Time, error) {
	ts, ok, err := t.stamps.Load(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return &ts, nil
}

// Sync runs the provider sync and records its completion time on success.
func (t *SyncTracker) Sync(ctx context.Context) error {
	if t.syncer == nil {
		return ErrSyncDisabled
	}
	t.inFlight.Add(1)
	defer t.inFlight.Add(-1)
	if err := t.syncer.Sync(ctx); err != nil {
		return fmt.Errorf("sync %s: %w", t.syncer.Kind(), err)
	}
	return t.stamps.Save(ctx, t.clock.Now())
}

// FeedSyncer pulls a JSON array of reservations from a provider endpoint and
// hands it to ReservationService.ApplySynced.
type FeedSyncer struct {
	Provider     string
	URL          string
	Client       *http.Client
	Reservations *ReservationService
}

func (f *FeedSyncer) Kind() string { return f.Provider }

func (f *FeedSyncer) Sync(ctx context.Context) error {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s", resp.Status)
	}
	var records []model.Reservation
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}
	_, err = f.Reservations.ApplySynced(f.Provider, records)
	return err
}
