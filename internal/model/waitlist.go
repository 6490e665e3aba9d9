package model

import "time"

// WaitlistStatus tracks a walk-in party.
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "Waiting"
	WaitlistNotified WaitlistStatus = "Notified"
	WaitlistSeated   WaitlistStatus = "Seated"
	WaitlistRemoved  WaitlistStatus = "Removed"
)

// WaitlistEntry is a party waiting for a table.  NotifiedAt is set exactly
// when the entry enters Notified.
type WaitlistEntry struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customer_name"`
	PartySize    int            `json:"party_size"`
	QuotedMins   int            `json:"quoted_wait_minutes"`
	Status       WaitlistStatus `json:"status"`
	NotifiedAt   *time.Time     `json:"notified_at,omitempty"`
	AddedAt      time.Time      `json:"added_at"`
}
