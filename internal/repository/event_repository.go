package repository

import (
	"context"
	"database/sql"
	"time"

	q "github.com/iliyamo/restaurant-pos/internal/queue"
)

// EventRepo appends lifecycle events to the lifecycle_events audit table.
// It satisfies service.Publisher so it can sit next to the broker publisher.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Publish inserts one event row.
func (r *EventRepo) Publish(ctx context.Context, ev q.LifecycleEvent) error {
	at, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		at = time.Now().UTC()
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO lifecycle_events
		 (event_type, entity_id, table_id, order_id, status, customer, amount_cents, actor_id, occurred_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		ev.Type, ev.EntityID, nullable(ev.TableID), nullable(ev.OrderID),
		nullable(ev.Status), nullable(ev.Customer), ev.AmountCents, nullable(ev.ActorID), at.UTC())
	return err
}

// Recent returns the newest events, optionally for one entity.
func (r *EventRepo) Recent(ctx context.Context, entityID string, limit int) ([]q.LifecycleEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT event_type, entity_id, table_id, order_id, status, customer, amount_cents, actor_id, occurred_at
		FROM lifecycle_events`
	args := []any{}
	if entityID != "" {
		query += " WHERE entity_id=?"
		args = append(args, entityID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []q.LifecycleEvent
	for rows.Next() {
		var ev q.LifecycleEvent
		var tableID, orderID, status, customer, actor sql.NullString
		var at time.Time
		if err := rows.Scan(&ev.Type, &ev.EntityID, &tableID, &orderID, &status, &customer, &ev.AmountCents, &actor, &at); err != nil {
			return nil, err
		}
		ev.TableID, ev.OrderID, ev.Status, ev.Customer = tableID.String, orderID.String, status.String, customer.String
		ev.ActorID = actor.String
		ev.OccurredAt = at.UTC().Format(time.RFC3339)
		out = append(out, ev)
	}
	return out, rows.Err()
}
