package model

// Plugins holds the optional feature toggles that can suppress permissions.
type Plugins struct {
	Reservation        bool `json:"reservation"`
	Waitlist           bool `json:"waitlist"`
	OrderNumberDisplay bool `json:"order_number_display"`
}
