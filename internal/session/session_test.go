package session

import (
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// staticSource resolves every employee against one mutable role.
type staticSource struct {
	role    model.Role
	plugins model.Plugins
}

func (s *staticSource) Permissions(string) *permission.Set {
	return permission.Resolve(&s.role, s.plugins)
}

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func TestSignedOutRoutesToLogin(t *testing.T) {
	var st State
	st.Navigate(view.POS, view.SubNone, t0)
	got := st.Screen(view.NewRouter(), &staticSource{})
	if got.Kind != view.KindLogin {
		t.Fatalf("got %s want login", got.Kind)
	}
	if st.Permissions(&staticSource{}) != nil {
		t.Fatal("signed-out state must have no permissions")
	}
}

func TestPermissionsAreRecomputed(t *testing.T) {
	src := &staticSource{role: model.Role{ID: "r", Permissions: map[string]bool{
		string(permission.ViewPOS):      true,
		string(permission.ViewWaitlist): true,
	}}, plugins: model.Plugins{Waitlist: true}}

	var st State
	st.SignIn(model.Employee{ID: "e1", Name: "Ana"}, t0)
	r := view.NewRouter()

	st.Navigate(view.Waitlist, view.SubNone, t0)
	if got := st.Screen(r, src); got.Kind != view.KindScreen {
		t.Fatalf("waitlist with plugin on: got %s", got.Kind)
	}

	src.plugins.Waitlist = false
	if got := st.Screen(r, src); got.Kind != view.KindDenied {
		t.Fatalf("waitlist after plugin off: got %s", got.Kind)
	}

	src.plugins.Waitlist = true
	src.role.Permissions[string(permission.ViewWaitlist)] = false
	if got := st.Screen(r, src); got.Kind != view.KindDenied {
		t.Fatalf("waitlist after role edit: got %s", got.Kind)
	}
}

func TestNavigateRemembersSubViews(t *testing.T) {
	var st State
	st.SignIn(model.Employee{ID: "e1"}, t0)
	if st.View != view.POS {
		t.Fatalf("sign-in view = %s", st.View)
	}
	st.Navigate(view.Management, view.MgmtFloors, t0)
	st.Navigate(view.Settings, view.SetPlugins, t0)
	st.Navigate(view.Orders, view.MgmtRoles, t0)
	if st.SubView() != view.SubNone {
		t.Fatalf("orders sub-view = %q", st.SubView())
	}
	st.Navigate(view.Management, st.Management, t0)
	if st.SubView() != view.MgmtFloors {
		t.Fatalf("management sub-view = %q", st.SubView())
	}
	if st.Settings != view.SetPlugins {
		t.Fatalf("settings sub-view = %q", st.Settings)
	}
	st.SignOut()
	if st.SignedIn() || st.View != view.Landing || st.Management != view.SubNone {
		t.Fatalf("sign-out left %+v", st)
	}
}

func TestTimeoutRemaining(t *testing.T) {
	var st State
	if got := st.TimeoutRemaining(time.Minute, t0); got != 0 {
		t.Fatalf("signed out: %s", got)
	}
	st.SignIn(model.Employee{ID: "e1"}, t0)
	if got := st.TimeoutRemaining(10*time.Minute, t0.Add(4*time.Minute)); got != 6*time.Minute {
		t.Fatalf("got %s", got)
	}
	st.Touch(t0.Add(8 * time.Minute))
	if got := st.TimeoutRemaining(10*time.Minute, t0.Add(9*time.Minute)); got != 9*time.Minute {
		t.Fatalf("after touch got %s", got)
	}
	if got := st.TimeoutRemaining(10*time.Minute, t0.Add(time.Hour)); got != 0 {
		t.Fatalf("past deadline got %s", got)
	}
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	clk := &fakeClock{now: t0}
	m := NewManager(5*time.Minute, clk, nil)
	m.SignIn(model.Employee{ID: "e1", Name: "Ana"})

	clk.Advance(4 * time.Minute)
	if _, ok := m.Touch("e1"); !ok {
		t.Fatal("session expired early")
	}
	clk.Advance(4 * time.Minute)
	if got := m.Remaining("e1"); got != time.Minute {
		t.Fatalf("remaining = %s", got)
	}
	clk.Advance(2 * time.Minute)
	if _, ok := m.Get("e1"); ok {
		t.Fatal("idle session still present")
	}
	if _, ok := m.Navigate("e1", view.POS, view.SubNone); ok {
		t.Fatal("navigate revived an expired session")
	}
}

func TestManagerSignOut(t *testing.T) {
	m := NewManager(0, &fakeClock{now: t0}, nil)
	m.SignIn(model.Employee{ID: "e1"})
	st, ok := m.Navigate("e1", view.Settings, view.SetGeneral)
	if !ok || st.Settings != view.SetGeneral {
		t.Fatalf("navigate: %+v %v", st, ok)
	}
	m.SignOut("e1")
	if _, ok := m.Get("e1"); ok {
		t.Fatal("state kept after sign-out")
	}
}
