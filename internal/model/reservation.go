package model

import "time"

// ReservationStatus is the booking state.  Every state other than pending is
// terminal.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no-show"
)

// Reservation records a booked party.  It carries no reference to the table
// claimed on seating.
//
// Fields:
//  ID           – stable identifier (provider ID for synced records).
//  CustomerID   – customer reference.
//  CustomerName – denormalized name used when seating.
//  PartySize    – number of guests.
//  Time         – reserved time slot.
//  Status       – lifecycle state.
//  Notes        – free text.
//  Source       – "local" or the provider kind it was synced from.
type Reservation struct {
	ID           string            `json:"id"`
	CustomerID   string            `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	PartySize    int               `json:"party_size"`
	Time         time.Time         `json:"time"`
	Status       ReservationStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	Source       string            `json:"source,omitempty"`
}
