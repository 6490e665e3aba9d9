// Package permission derives the effective capability set of a signed-in
// employee from the raw flags on their role and the active feature plugins.
// The derived set is never stored: callers resolve it again whenever the role,
// the employee or the plugin toggles may have changed.
package permission

import "sort"

// Key names a single capability.  The set of keys is closed; raw role flags
// with any other name are ignored.
type Key string

const (
	ViewPOS                Key = "viewPOS"
	ViewFloorPlan          Key = "viewFloorPlan"
	ViewOrders             Key = "viewOrders"
	ViewReservations       Key = "viewReservations"
	ManageReservations     Key = "manageReservations"
	ViewWaitlist           Key = "viewWaitlist"
	ManageWaitlist         Key = "manageWaitlist"
	ViewOrderNumberDisplay Key = "viewOrderNumberDisplay"
	ViewManagement         Key = "viewManagement"
	ViewSettings           Key = "viewSettings"
	ViewReports            Key = "viewReports"
	ManageRoles            Key = "manageRoles"
	ManageEmployees        Key = "manageEmployees"
	ManageFloors           Key = "manageFloors"
	ManageTables           Key = "manageTables"
	ManageProducts         Key = "manageProducts"
	ManageSettings         Key = "manageSettings"
	ProcessPayments        Key = "processPayments"
	VoidOrders             Key = "voidOrders"
	TransferTables         Key = "transferTables"
)

// Plugin identifies an optional feature that owns some keys.
type Plugin string

const (
	PluginNone               Plugin = ""
	PluginReservation        Plugin = "reservation"
	PluginWaitlist           Plugin = "waitlist"
	PluginOrderNumberDisplay Plugin = "orderNumberDisplay"
)

// owners maps every known key to the plugin that must be active for the key
// to be granted.  PluginNone means the key is never suppressed.
var owners = map[Key]Plugin{
	ViewPOS:                PluginNone,
	ViewFloorPlan:          PluginNone,
	ViewOrders:             PluginNone,
	ViewReservations:       PluginReservation,
	ManageReservations:     PluginReservation,
	ViewWaitlist:           PluginWaitlist,
	ManageWaitlist:         PluginWaitlist,
	ViewOrderNumberDisplay: PluginOrderNumberDisplay,
	ViewManagement:         PluginNone,
	ViewSettings:           PluginNone,
	ViewReports:            PluginNone,
	ManageRoles:            PluginNone,
	ManageEmployees:        PluginNone,
	ManageFloors:           PluginNone,
	ManageTables:           PluginNone,
	ManageProducts:         PluginNone,
	ManageSettings:         PluginNone,
	ProcessPayments:        PluginNone,
	VoidOrders:             PluginNone,
	TransferTables:         PluginNone,
}

// Keys returns every known key, sorted.
func Keys() []Key {
	out := make([]Key, 0, len(owners))
	for k := range owners {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether k is a recognised key.
func Known(k Key) bool {
	_, ok := owners[k]
	return ok
}

// Owner returns the plugin owning k.
func Owner(k Key) Plugin {
	return owners[k]
}
