package session

import (
	"log"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

// Manager keeps one State per signed-in employee and signs idle employees
// out after timeout.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*State
	timeout time.Duration
	clock   countdown.Clock
	timers  *countdown.Registry
}

// NewManager returns a Manager.  A non-positive timeout disables idle
// sign-out.
func NewManager(timeout time.Duration, clock countdown.Clock, timers *countdown.Registry) *Manager {
	if clock == nil {
		clock = countdown.SystemClock{}
	}
	return &Manager{states: map[string]*State{}, timeout: timeout, clock: clock, timers: timers}
}

// Timeout returns the idle timeout.
func (m *Manager) Timeout() time.Duration { return m.timeout }

func (m *Manager) arm(id string, deadline time.Time) {
	if m.timers == nil || m.timeout <= 0 {
		return
	}
	m.timers.Watch("session:"+id, deadline, func(rem time.Duration) {
		if rem == 0 {
			m.expire(id, deadline)
		}
	})
}

// expire runs on the timer goroutine, so it must not touch the registry.
func (m *Manager) expire(id string, deadline time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok || st.Deadline(m.timeout).After(deadline) {
		return
	}
	delete(m.states, id)
	log.Printf("session: %s signed out after %s idle", id, m.timeout)
}

// SignIn creates or resets the state for e.
func (m *Manager) SignIn(e model.Employee) State {
	st := &State{}
	st.SignIn(e, m.clock.Now())
	m.mu.Lock()
	m.states[e.ID] = st
	out := *st
	m.mu.Unlock()
	m.arm(e.ID, out.Deadline(m.timeout))
	return out
}

// SignOut drops the state for id.
func (m *Manager) SignOut(id string) {
	m.mu.Lock()
	delete(m.states, id)
	m.mu.Unlock()
	if m.timers != nil {
		m.timers.Cancel("session:" + id)
	}
}

// Get returns a copy of the state for id.  An expired or unknown session
// reports ok == false.
func (m *Manager) Get(id string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		return State{}, false
	}
	if m.timeout > 0 && st.TimeoutRemaining(m.timeout, m.clock.Now()) == 0 {
		delete(m.states, id)
		return State{}, false
	}
	return *st, true
}

func (m *Manager) apply(id string, fn func(st *State, now time.Time)) (State, bool) {
	now := m.clock.Now()
	m.mu.Lock()
	st, ok := m.states[id]
	if ok && m.timeout > 0 && st.TimeoutRemaining(m.timeout, now) == 0 {
		delete(m.states, id)
		ok = false
	}
	if !ok {
		m.mu.Unlock()
		return State{}, false
	}
	fn(st, now)
	out := *st
	m.mu.Unlock()
	m.arm(id, out.Deadline(m.timeout))
	return out, true
}

// Navigate applies the navigate intent to id's state.
func (m *Manager) Navigate(id string, v view.View, sub view.SubView) (State, bool) {
	return m.apply(id, func(st *State, now time.Time) { st.Navigate(v, sub, now) })
}

// Touch records activity for id.
func (m *Manager) Touch(id string) (State, bool) {
	return m.apply(id, func(st *State, now time.Time) { st.Touch(now) })
}

// Remaining is the idle time left for id.
func (m *Manager) Remaining(id string) time.Duration {
	st, ok := m.Get(id)
	if !ok {
		return 0
	}
	return st.TimeoutRemaining(m.timeout, m.clock.Now())
}
