// Package view maps the navigation state of a terminal (active view and
// sub-view) plus the effective permissions of the signed-in employee to a
// single screen, a sign-in redirect, or a denial.
package view

// View is a top-level screen identifier.
type View string

const (
	Landing            View = "landing"
	KitchenDisplay     View = "kitchen-display"
	CustomerDisplay    View = "customer-display"
	Kiosk              View = "kiosk"
	QROrdering         View = "qr-ordering"
	OrderNumberDisplay View = "order-number-display"

	POS          View = "pos"
	FloorPlan    View = "floor-plan"
	Orders       View = "orders"
	Reservations View = "reservations"
	Waitlist     View = "waitlist"
	Reports      View = "reports"
	Management   View = "management"
	Settings     View = "settings"
)

// SubView identifies a section inside Management or Settings.
type SubView string

const (
	SubNone SubView = ""

	MgmtProducts   SubView = "products"
	MgmtCategories SubView = "categories"
	MgmtTaxes      SubView = "taxes"
	MgmtSuppliers  SubView = "suppliers"
	MgmtEmployees  SubView = "employees"
	MgmtRoles      SubView = "roles"
	MgmtFloors     SubView = "floors"
	MgmtTables     SubView = "tables"

	SetGeneral         SubView = "general"
	SetPlugins         SubView = "plugins"
	SetPrinters        SubView = "printers"
	SetReservationSync SubView = "reservation-sync"
	SetReceipts        SubView = "receipts"
)

// Screen is the renderable outcome of a successful route.
type Screen string

// Kind classifies a routing result.
type Kind int

const (
	KindScreen Kind = iota
	KindLogin
	KindDenied
)

func (k Kind) String() string {
	switch k {
	case KindScreen:
		return "screen"
	case KindLogin:
		return "login"
	case KindDenied:
		return "denied"
	}
	return "unknown"
}

// Result is a routing decision.  Screen is empty unless Kind is KindScreen.
type Result struct {
	Kind   Kind   `json:"-"`
	Screen Screen `json:"screen,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func screen(s Screen) Result { return Result{Kind: KindScreen, Screen: s} }

func denied(reason string) Result { return Result{Kind: KindDenied, Reason: reason} }

var login = Result{Kind: KindLogin, Reason: "sign-in required"}
