package permission

import (
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func allFlagCombos() []model.Plugins {
	var out []model.Plugins
	for i := 0; i < 8; i++ {
		out = append(out, model.Plugins{
			Reservation:        i&1 != 0,
			Waitlist:           i&2 != 0,
			OrderNumberDisplay: i&4 != 0,
		})
	}
	return out
}

func TestResolveNilRole(t *testing.T) {
	if got := Resolve(nil, model.Plugins{Reservation: true}); got != nil {
		t.Fatalf("expected nil set for nil role, got %v", got.Map())
	}
	var s *Set
	if s.Has(ViewPOS) {
		t.Fatal("nil set must not grant anything")
	}
}

func TestResolveNeverGrantsInactivePluginKeys(t *testing.T) {
	for _, role := range DefaultRoles() {
		role := role
		for _, flags := range allFlagCombos() {
			set := Resolve(&role, flags)
			for _, k := range Keys() {
				if set.Has(k) && !active(Owner(k), flags) {
					t.Errorf("role %s flags %+v: %s granted with inactive plugin %q", role.ID, flags, k, Owner(k))
				}
			}
		}
	}
}

func TestResolveSuppressionOnly(t *testing.T) {
	role := model.Role{ID: "r", Permissions: map[string]bool{
		string(ViewPOS):          false,
		string(ViewReservations): false,
		string(ViewWaitlist):     true,
	}}
	set := Resolve(&role, model.Plugins{Reservation: true, Waitlist: true, OrderNumberDisplay: true})
	if set.Has(ViewPOS) || set.Has(ViewReservations) {
		t.Fatal("plugin activation must not turn on a denied permission")
	}
	if !set.Has(ViewWaitlist) {
		t.Fatal("granted waitlist permission lost with plugin active")
	}
	set = Resolve(&role, model.Plugins{})
	if set.Has(ViewWaitlist) {
		t.Fatal("waitlist permission survived inactive plugin")
	}
}

func TestResolveDropsUnknownKeys(t *testing.T) {
	role := model.Role{ID: "r", Permissions: map[string]bool{"launchRockets": true}}
	m := Resolve(&role, model.Plugins{}).Map()
	if _, ok := m["launchRockets"]; ok {
		t.Fatal("unknown key leaked into effective set")
	}
	if len(m) != len(Keys()) {
		t.Fatalf("expected full map of %d keys, got %d", len(Keys()), len(m))
	}
}

func TestResolveDoesNotMutateRole(t *testing.T) {
	role := DefaultRoles()[0]
	Resolve(&role, model.Plugins{})
	if !role.Permissions[string(ViewReservations)] {
		t.Fatal("resolve mutated the raw role permissions")
	}
}
