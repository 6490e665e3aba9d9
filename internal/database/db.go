// Package database opens the optional MySQL connection that backs the
// lifecycle audit trail.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schema is applied on start-up; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS lifecycle_events (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		event_type  VARCHAR(64)  NOT NULL,
		entity_id   VARCHAR(64)  NOT NULL,
		table_id    VARCHAR(64)  NULL,
		order_id    VARCHAR(64)  NULL,
		status      VARCHAR(32)  NULL,
		customer    VARCHAR(255) NULL,
		amount_cents BIGINT      NOT NULL DEFAULT 0,
		actor_id    VARCHAR(64)  NULL,
		occurred_at DATETIME(3)  NOT NULL,
		KEY idx_lifecycle_entity (entity_id),
		KEY idx_lifecycle_type_time (event_type, occurred_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables the service writes to.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
