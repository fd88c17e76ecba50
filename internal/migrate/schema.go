// Package migrate creates the tables the optional PostgreSQL record source reads.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"milpower/internal/logger"
)

// Statements run in order by EnsureSchema. IF NOT EXISTS keeps reruns harmless.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS _mil_countries (
		position INT PRIMARY KEY,
		country TEXT NOT NULL UNIQUE,
		power_index DOUBLE PRECISION NOT NULL CHECK (power_index >= 0),
		military_budget DOUBLE PRECISION NOT NULL CHECK (military_budget >= 0),
		gdp DOUBLE PRECISION NOT NULL CHECK (gdp >= 0),
		personnel BIGINT NOT NULL CHECK (personnel >= 0),
		region TEXT NOT NULL,
		continent TEXT NOT NULL,
		alliance TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mil_countries_filter ON _mil_countries(region, continent, alliance)`,
}

// EnsureSchema runs Statements in order.
// Constraint: every statement is idempotent, so startup and seed-db can both call it.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range Statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
