// Package countdown computes remaining time against absolute deadlines and
// drives periodic wake-ups for on-screen countdowns.  Every wake-up
// recomputes from the deadline and the clock, so a missed or late tick never
// skews the displayed value.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Clock abstracts wall-clock reads.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Remaining returns deadline-now, clamped at zero.
func Remaining(deadline, now time.Time) time.Duration {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Format renders d as MM:SS, truncating partial seconds.  Negative values
// render as 00:00.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Timer calls back with the remaining time once per tick until the deadline
// passes or the timer is stopped.  It is a single time.Timer re-armed after
// each callback.
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches a Timer.  fn runs on the timer goroutine: immediately, then
// every tick, and a final time with zero remaining.  Cancelling ctx or
// calling Stop ends the timer without a final callback.  fn must not stop
// its own timer.
func Start(ctx context.Context, clock Clock, deadline time.Time, tick time.Duration, fn func(remaining time.Duration)) *Timer {
	if tick <= 0 {
		tick = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Timer{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		wake := time.NewTimer(0)
		defer wake.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake.C:
			}
			rem := Remaining(deadline, clock.Now())
			fn(rem)
			if rem == 0 {
				return
			}
			next := tick
			if rem < next {
				next = rem
			}
			wake.Reset(next)
		}
	}()
	return t
}

// Stop cancels the timer and waits for its goroutine to exit.
func (t *Timer) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed once the timer has finished or been stopped.
func (t *Timer) Done() <-chan struct{} { return t.done }

// Registry keeps at most one Timer per key, so that a timer tied to an
// entity is replaced when the entity changes and cleared when its owner goes
// away.
type Registry struct {
	mu     sync.Mutex
	clock  Clock
	tick   time.Duration
	timers map[string]*Timer
}

// NewRegistry returns a Registry whose timers tick every tick.
func NewRegistry(clock Clock, tick time.Duration) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Registry{clock: clock, tick: tick, timers: map[string]*Timer{}}
}

// Watch starts a timer for key, stopping any previous one for the same key.
func (r *Registry) Watch(key string, deadline time.Time, fn func(remaining time.Duration)) {
	r.mu.Lock()
	prev := r.timers[key]
	t := Start(context.Background(), r.clock, deadline, r.tick, fn)
	r.timers[key] = t
	r.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
	go func() {
		<-t.Done()
		r.mu.Lock()
		if r.timers[key] == t {
			delete(r.timers, key)
		}
		r.mu.Unlock()
	}()
}

// Cancel stops the timer for key, if any.
func (r *Registry) Cancel(key string) {
	r.mu.Lock()
	t := r.timers[key]
	delete(r.timers, key)
	r.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

// CancelAll stops every timer.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	timers := r.timers
	r.timers = map[string]*Timer{}
	r.mu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
}

// Active reports whether a timer is running for key.
func (r *Registry) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[key]
	return ok
}
