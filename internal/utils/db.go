// Package utils opens the service's external connections from typed config.
package utils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"milpower/internal/config"
)

// OpenPostgres opens a pooled handle and pings it so a bad DSN fails at startup.
// Constraint: the ping honours ctx; the handle is closed again when it fails.
func OpenPostgres(ctx context.Context, pg config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := pg.MaxOpenConns, pg.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle < 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres %s:%d/%s: %w", pg.Host, pg.Port, pg.DB, err)
	}
	return db, nil
}
