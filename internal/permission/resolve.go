package permission

import "github.com/iliyamo/restaurant-pos/internal/model"

// Set is an effective permission map.  A nil *Set means "no session".
type Set struct {
	granted map[Key]bool
}

// Has reports whether k is granted.  Has on a nil Set is always false.
func (s *Set) Has(k Key) bool {
	if s == nil {
		return false
	}
	return s.granted[k]
}

// Map returns a copy of the full permission map, including false entries,
// suitable for serialization.
func (s *Set) Map() map[Key]bool {
	if s == nil {
		return nil
	}
	out := make(map[Key]bool, len(s.granted))
	for k, v := range s.granted {
		out[k] = v
	}
	return out
}

// active reports whether plugin p is switched on in flags.
func active(p Plugin, flags model.Plugins) bool {
	switch p {
	case PluginNone:
		return true
	case PluginReservation:
		return flags.Reservation
	case PluginWaitlist:
		return flags.Waitlist
	case PluginOrderNumberDisplay:
		return flags.OrderNumberDisplay
	}
	return false
}

// Resolve derives the effective permissions for role under the given plugin
// flags.  A nil role yields nil.  Plugin gating only ever removes a grant.
func Resolve(role *model.Role, flags model.Plugins) *Set {
	if role == nil {
		return nil
	}
	granted := make(map[Key]bool, len(owners))
	for k, owner := range owners {
		granted[k] = role.Permissions[string(k)] && active(owner, flags)
	}
	return &Set{granted: granted}
}

// FromMap builds a Set directly from a key map, without plugin gating.
// Unknown keys are dropped.
func FromMap(m map[Key]bool) *Set {
	granted := make(map[Key]bool, len(owners))
	for k := range owners {
		granted[k] = m[k]
	}
	return &Set{granted: granted}
}
