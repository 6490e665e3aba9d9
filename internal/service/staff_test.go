package service

import (
	"errors"
	"testing"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

func newStaff(t *testing.T) *StaffService {
	t.Helper()
	f := newFixture(t)
	s := NewStaffService(f.deps, 4)
	if err := s.SeedDefaults(model.Plugins{Waitlist: true}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStaffPermissionsFollowRoleAndPlugins(t *testing.T) {
	s := newStaff(t)
	e, err := s.CreateEmployee("e1", "Ana", permission.RoleServer, "1234")
	if err != nil {
		t.Fatal(err)
	}
	if e.PINHash == "1234" || e.PINHash == "" {
		t.Fatal("PIN stored in clear")
	}

	p := s.Permissions(e.ID)
	if !p.Has(permission.ViewWaitlist) || p.Has(permission.ViewReservations) {
		t.Fatalf("perms = %v", p.Map())
	}

	s.SetPlugins(model.Plugins{Reservation: true})
	p = s.Permissions(e.ID)
	if p.Has(permission.ViewWaitlist) || !p.Has(permission.ViewReservations) {
		t.Fatalf("perms after plugin change = %v", p.Map())
	}

	if _, err := s.SetEmployeeRole(e.ID, permission.RoleKitchen); err != nil {
		t.Fatal(err)
	}
	if s.Permissions(e.ID).Has(permission.ViewPOS) {
		t.Fatal("role change not visible")
	}
	if s.Permissions("ghost") != nil {
		t.Fatal("unknown employee has permissions")
	}
}

func TestAuthenticate(t *testing.T) {
	s := newStaff(t)
	_, _ = s.CreateEmployee("e1", "Ana", permission.RoleServer, "4321")
	if _, err := s.Authenticate("e1", "4321"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Authenticate("e1", "0000"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("wrong pin err = %v", err)
	}
	if _, err := s.Authenticate("nobody", "4321"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("unknown employee err = %v", err)
	}
}

func TestDeleteRole(t *testing.T) {
	s := newStaff(t)
	if err := s.DeleteRole(permission.RoleAdmin); !errors.Is(err, repository.ErrProtected) {
		t.Fatalf("system role err = %v", err)
	}
	r, err := s.CreateRole("Host", map[string]bool{string(permission.ViewWaitlist): true})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = s.CreateEmployee("e2", "Bo", r.ID, "1111")
	if err := s.DeleteRole(r.ID); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("assigned role err = %v", err)
	}
	_, _ = s.SetEmployeeRole("e2", permission.RoleServer)
	if err := s.DeleteRole(r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateRole("Bad", map[string]bool{"launchMissiles": true}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown key err = %v", err)
	}
}
