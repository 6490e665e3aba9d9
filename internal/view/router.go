package view

import (
	"slices"

	"github.com/iliyamo/restaurant-pos/internal/permission"
)

// Predicate decides whether a permission set may reach a route.
type Predicate func(*permission.Set) bool

// ScreenFactory names the screen rendered for a route.
type ScreenFactory func() Screen

type route struct {
	require Predicate
	build   ScreenFactory
}

// Router holds the registration tables.  Build it once with NewRouter; it is
// read-only afterwards and safe to share.
type Router struct {
	public     map[View]ScreenFactory
	protected  map[View]route
	management map[SubView]route
	settings   map[SubView]route
}

func has(k permission.Key) Predicate {
	return func(s *permission.Set) bool { return s.Has(k) }
}

func anyOf(keys ...permission.Key) Predicate {
	return func(s *permission.Set) bool {
		for _, k := range keys {
			if s.Has(k) {
				return true
			}
		}
		return false
	}
}

func fixed(s Screen) ScreenFactory { return func() Screen { return s } }

// NewRouter builds the registration tables.
func NewRouter() *Router {
	return &Router{
		public: map[View]ScreenFactory{
			Landing:            fixed("LandingScreen"),
			KitchenDisplay:     fixed("KitchenDisplayScreen"),
			CustomerDisplay:    fixed("CustomerDisplayScreen"),
			Kiosk:              fixed("SelfOrderKioskScreen"),
			QROrdering:         fixed("QROrderingScreen"),
			OrderNumberDisplay: fixed("OrderNumberDisplayScreen"),
		},
		protected: map[View]route{
			POS:          {has(permission.ViewPOS), fixed("POSScreen")},
			FloorPlan:    {has(permission.ViewFloorPlan), fixed("FloorPlanScreen")},
			Orders:       {has(permission.ViewOrders), fixed("OrdersScreen")},
			Reservations: {has(permission.ViewReservations), fixed("ReservationsScreen")},
			Waitlist:     {has(permission.ViewWaitlist), fixed("WaitlistScreen")},
			Reports:      {has(permission.ViewReports), fixed("ReportsScreen")},
			Management:   {has(permission.ViewManagement), fixed("ManagementIndexScreen")},
			Settings:     {has(permission.ViewSettings), fixed("SettingsIndexScreen")},
		},
		management: map[SubView]route{
			MgmtProducts:   {has(permission.ManageProducts), fixed("ProductsScreen")},
			MgmtCategories: {has(permission.ManageProducts), fixed("CategoriesScreen")},
			MgmtTaxes:      {has(permission.ManageProducts), fixed("TaxesScreen")},
			MgmtSuppliers:  {has(permission.ManageProducts), fixed("SuppliersScreen")},
			MgmtEmployees:  {has(permission.ManageEmployees), fixed("EmployeesScreen")},
			MgmtRoles:      {has(permission.ManageRoles), fixed("RolesScreen")},
			MgmtFloors:     {has(permission.ManageFloors), fixed("FloorsScreen")},
			MgmtTables:     {anyOf(permission.ManageTables, permission.ManageFloors), fixed("TablesScreen")},
		},
		settings: map[SubView]route{
			SetGeneral:         {has(permission.ManageSettings), fixed("GeneralSettingsScreen")},
			SetPlugins:         {has(permission.ManageSettings), fixed("PluginSettingsScreen")},
			SetPrinters:        {has(permission.ManageSettings), fixed("PrinterSettingsScreen")},
			SetReservationSync: {anyOf(permission.ManageSettings, permission.ManageReservations), fixed("ReservationSyncScreen")},
			SetReceipts:        {has(permission.ManageSettings), fixed("ReceiptSettingsScreen")},
		},
	}
}

// Public reports whether v is reachable without a session.
func (r *Router) Public(v View) bool {
	_, ok := r.public[v]
	return ok
}

// Route resolves (v, sub, perms) to a Result.  Public views are checked
// first and ignore perms entirely.  A nil perms on any other view yields a
// sign-in redirect; a missing capability or an unknown view or sub-view
// yields a denial.  The result depends only on its arguments.
func (r *Router) Route(v View, sub SubView, perms *permission.Set) Result {
	if build, ok := r.public[v]; ok {
		return screen(build())
	}
	if perms == nil {
		return login
	}
	rt, ok := r.protected[v]
	if !ok {
		return denied("unknown view")
	}
	if !rt.require(perms) {
		return denied("missing permission for " + string(v))
	}

	var table map[SubView]route
	switch v {
	case Management:
		table = r.management
	case Settings:
		table = r.settings
	default:
		return screen(rt.build())
	}
	if sub == SubNone {
		return screen(rt.build())
	}
	srt, ok := table[sub]
	if !ok {
		return denied("unknown section")
	}
	if !srt.require(perms) {
		return denied("missing permission for " + string(v) + "/" + string(sub))
	}
	return screen(srt.build())
}

// Routes lists every registered protected view and sub-view pair, sub-views
// sorted by name.  It is used to render navigation menus.
func (r *Router) Routes() map[View][]SubView {
	out := make(map[View][]SubView, len(r.protected))
	for v := range r.protected {
		out[v] = nil
	}
	for s := range r.management {
		out[Management] = append(out[Management], s)
	}
	for s := range r.settings {
		out[Settings] = append(out[Settings], s)
	}
	slices.Sort(out[Management])
	slices.Sort(out[Settings])
	return out
}
