// Package session holds the per-terminal application state: who is signed
// in, which view is active and when the employee last did something.  State
// changes only through the named intents below; permissions and the routed
// screen are derived on every read.
package session

import (
	"time"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

// PermissionSource resolves the current permissions of an employee.  It is
// satisfied by service.StaffService.
type PermissionSource interface {
	Permissions(employeeID string) *permission.Set
}

// State is one terminal's application state.  The zero value is a signed-out
// terminal on the landing view.
type State struct {
	EmployeeID   string       `json:"employee_id,omitempty"`
	EmployeeName string       `json:"employee_name,omitempty"`
	View         view.View    `json:"view"`
	Management   view.SubView `json:"management_view,omitempty"`
	Settings     view.SubView `json:"settings_view,omitempty"`
	LastActivity time.Time    `json:"last_activity"`
}

// SignedIn reports whether an employee holds the terminal.
func (s *State) SignedIn() bool { return s.EmployeeID != "" }

// SignIn hands the terminal to e and opens the POS view.
func (s *State) SignIn(e model.Employee, now time.Time) {
	*s = State{
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		View:         view.POS,
		LastActivity: now,
	}
}

// SignOut clears the employee and returns to the landing view.
func (s *State) SignOut() {
	*s = State{View: view.Landing}
}

// Navigate switches the active view.  For management and settings, sub
// selects the section and is remembered per view; it is ignored elsewhere.
func (s *State) Navigate(v view.View, sub view.SubView, now time.Time) {
	s.View = v
	switch v {
	case view.Management:
		s.Management = sub
	case view.Settings:
		s.Settings = sub
	}
	s.Touch(now)
}

// Touch records activity.
func (s *State) Touch(now time.Time) {
	if s.SignedIn() {
		s.LastActivity = now
	}
}

// SubView returns the remembered section of the active view.
func (s *State) SubView() view.SubView {
	switch s.View {
	case view.Management:
		return s.Management
	case view.Settings:
		return s.Settings
	}
	return view.SubNone
}

// Permissions resolves the signed-in employee's permissions.  Nothing is
// cached; a role or plugin change is visible on the next call.
func (s *State) Permissions(src PermissionSource) *permission.Set {
	if !s.SignedIn() || src == nil {
		return nil
	}
	return src.Permissions(s.EmployeeID)
}

// Screen routes the current navigation.
func (s *State) Screen(r *view.Router, src PermissionSource) view.Result {
	v := s.View
	if v == "" {
		v = view.Landing
	}
	return r.Route(v, s.SubView(), s.Permissions(src))
}

// Deadline is when an idle session times out.
func (s *State) Deadline(timeout time.Duration) time.Time {
	return s.LastActivity.Add(timeout)
}

// TimeoutRemaining is the time left before an idle sign-out.  It is zero for
// a signed-out terminal or a disabled timeout.
func (s *State) TimeoutRemaining(timeout time.Duration, now time.Time) time.Duration {
	if !s.SignedIn() || timeout <= 0 {
		return 0
	}
	return countdown.Remaining(s.Deadline(timeout), now)
}
