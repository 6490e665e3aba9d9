package view

import (
	"slices"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
)

func serverPerms() *permission.Set {
	for _, r := range permission.DefaultRoles() {
		if r.ID == permission.RoleServer {
			return permission.Resolve(&r, model.Plugins{Reservation: true, Waitlist: true})
		}
	}
	return nil
}

func TestPublicViewsWithoutSession(t *testing.T) {
	r := NewRouter()
	for _, v := range []View{Landing, KitchenDisplay, CustomerDisplay, Kiosk, QROrdering, OrderNumberDisplay} {
		res := r.Route(v, SubNone, nil)
		if res.Kind != KindScreen || res.Screen == "" {
			t.Errorf("%s: expected screen without session, got %v", v, res.Kind)
		}
	}
}

func TestProtectedViewWithoutSessionRedirects(t *testing.T) {
	r := NewRouter()
	for _, v := range []View{POS, FloorPlan, Management, Settings, View("nope")} {
		if res := r.Route(v, SubNone, nil); res.Kind != KindLogin {
			t.Errorf("%s: expected login redirect, got %v", v, res.Kind)
		}
	}
}

func TestPOSDeniedWithoutViewPOS(t *testing.T) {
	r := NewRouter()
	perms := permission.FromMap(map[permission.Key]bool{permission.ViewFloorPlan: true})
	res := r.Route(POS, SubNone, perms)
	if res.Kind != KindDenied {
		t.Fatalf("expected denial, got %v (%s)", res.Kind, res.Screen)
	}
	if res.Screen != "" {
		t.Fatal("denied result must not carry a screen")
	}
}

func TestSubViewRouting(t *testing.T) {
	r := NewRouter()
	mgr := permission.FromMap(map[permission.Key]bool{
		permission.ViewManagement: true,
		permission.ManageFloors:   true,
	})
	tests := []struct {
		name string
		view View
		sub  SubView
		want Kind
	}{
		{"index", Management, SubNone, KindScreen},
		{"floors allowed", Management, MgmtFloors, KindScreen},
		{"tables via floors", Management, MgmtTables, KindScreen},
		{"roles denied", Management, MgmtRoles, KindDenied},
		{"unknown section", Management, SubView("bogus"), KindDenied},
		{"settings view denied", Settings, SetGeneral, KindDenied},
		{"unknown view", View("bogus"), SubNone, KindDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Route(tt.view, tt.sub, mgr); got.Kind != tt.want {
				t.Fatalf("got %v want %v (%s)", got.Kind, tt.want, got.Reason)
			}
		})
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := NewRouter()
	perms := serverPerms()
	for v, subs := range r.Routes() {
		for _, sub := range append(subs, SubNone) {
			first := r.Route(v, sub, perms)
			for i := 0; i < 3; i++ {
				if got := r.Route(v, sub, perms); got != first {
					t.Fatalf("%s/%s: result changed between calls", v, sub)
				}
			}
		}
	}
}

func TestRoutesAreSorted(t *testing.T) {
	r := NewRouter()
	want := map[View][]SubView{
		Management: {MgmtCategories, MgmtEmployees, MgmtFloors, MgmtProducts, MgmtRoles, MgmtSuppliers, MgmtTables, MgmtTaxes},
		Settings:   {SetGeneral, SetPlugins, SetPrinters, SetReceipts, SetReservationSync},
	}
	for i := 0; i < 5; i++ {
		routes := r.Routes()
		for v, subs := range want {
			if !slices.Equal(routes[v], subs) {
				t.Fatalf("%s sub-views = %v, want %v", v, routes[v], subs)
			}
		}
	}
}

func TestServerRoleReachesWaitlistOnlyWithPlugin(t *testing.T) {
	r := NewRouter()
	var server model.Role
	for _, role := range permission.DefaultRoles() {
		if role.ID == permission.RoleServer {
			server = role
		}
	}
	on := permission.Resolve(&server, model.Plugins{Waitlist: true})
	off := permission.Resolve(&server, model.Plugins{})
	if r.Route(Waitlist, SubNone, on).Kind != KindScreen {
		t.Fatal("waitlist should be reachable with plugin active")
	}
	if r.Route(Waitlist, SubNone, off).Kind != KindDenied {
		t.Fatal("waitlist should be denied with plugin inactive")
	}
}
