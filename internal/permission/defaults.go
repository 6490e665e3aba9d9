package permission

import "github.com/iliyamo/restaurant-pos/internal/model"

// Identifiers of the seeded system roles.
const (
	RoleAdmin   = "role-admin"
	RoleManager = "role-manager"
	RoleServer  = "role-server"
	RoleKitchen = "role-kitchen"
)

func grant(keys ...Key) map[string]bool {
	m := make(map[string]bool, len(owners))
	for k := range owners {
		m[string(k)] = false
	}
	for _, k := range keys {
		m[string(k)] = true
	}
	return m
}

// DefaultRoles returns fresh copies of the system roles.
func DefaultRoles() []model.Role {
	all := Keys()
	return []model.Role{
		{ID: RoleAdmin, Name: "Admin", Permissions: grant(all...), IsSystem: true},
		{ID: RoleManager, Name: "Manager", IsSystem: true, Permissions: grant(
			ViewPOS, ViewFloorPlan, ViewOrders, ViewReservations, ManageReservations,
			ViewWaitlist, ManageWaitlist, ViewOrderNumberDisplay, ViewManagement,
			ViewReports, ManageFloors, ManageTables, ManageProducts,
			ProcessPayments, VoidOrders, TransferTables,
		)},
		{ID: RoleServer, Name: "Server", IsSystem: true, Permissions: grant(
			ViewPOS, ViewFloorPlan, ViewOrders, ViewReservations, ViewWaitlist,
			ManageWaitlist, ProcessPayments, TransferTables,
		)},
		{ID: RoleKitchen, Name: "Kitchen", IsSystem: true, Permissions: grant(
			ViewOrders, ViewOrderNumberDisplay,
		)},
	}
}
