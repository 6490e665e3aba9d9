// Package queue defines message payloads exchanged over the message broker.
package queue

import "context"

// Event types published by the lifecycle services.
const (
	EventTableOpened          = "table.opened"
	EventTableReleased        = "table.released"
	EventTableTransferred     = "table.transferred"
	EventTabOpened            = "tab.opened"
	EventOrderSentToKitchen   = "order.sent_to_kitchen"
	EventOrderServed          = "order.served"
	EventOrderPartiallyPaid   = "order.partially_paid"
	EventOrderPaid            = "order.paid"
	EventOrderVoided          = "order.voided"
	EventReservationCreated   = "reservation.created"
	EventReservationSeated    = "reservation.seated"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationNoShow    = "reservation.no_show"
	EventWaitlistAdded        = "waitlist.added"
	EventWaitlistNotified     = "waitlist.notified"
	EventWaitlistWindowClosed = "waitlist.window_closed"
	EventWaitlistSeated       = "waitlist.seated"
	EventWaitlistRemoved      = "waitlist.removed"
)

// LifecycleEvent is published after a lifecycle mutation commits.  It carries
// enough context for kitchen and order-number displays, audit logging and
// analytics without reading the store.
type LifecycleEvent struct {
	Type        string `json:"type"`
	EntityID    string `json:"entity_id"`
	TableID     string `json:"table_id,omitempty"`
	TableName   string `json:"table_name,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Customer    string `json:"customer,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

type actorKey struct{}

// WithActor tags ctx with the employee performing a mutation so published
// events can name them.
func WithActor(ctx context.Context, employeeID string) context.Context {
	return context.WithValue(ctx, actorKey{}, employeeID)
}

// ActorFrom returns the employee set by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// RoutingKey is the topic routing key for ev, e.g. "pos.order.paid".
func (ev LifecycleEvent) RoutingKey() string {
	return "pos." + ev.Type
}

