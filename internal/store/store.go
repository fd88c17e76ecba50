// Package store reads the country table from PostgreSQL and seeds it with the built-in rows.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"milpower/internal/dataset"
	"milpower/internal/logger"
)

// Store: wraps a pooled handle; the service only reads through it after startup.
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

const selectCountries = `SELECT country, power_index, military_budget, gdp, personnel, region, continent, alliance
	FROM _mil_countries ORDER BY position`

const upsertCountry = `INSERT INTO _mil_countries(position, country, power_index, military_budget, gdp, personnel, region, continent, alliance)
	VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (position) DO UPDATE SET country=EXCLUDED.country, power_index=EXCLUDED.power_index,
		military_budget=EXCLUDED.military_budget, gdp=EXCLUDED.gdp, personnel=EXCLUDED.personnel,
		region=EXCLUDED.region, continent=EXCLUDED.continent, alliance=EXCLUDED.alliance`

type scanner interface {
	Scan(dest ...any) error
}

func scanCountry(sc scanner) (dataset.Country, error) {
	var c dataset.Country
	err := sc.Scan(&c.Name, &c.PowerIndex, &c.MilitaryBudget, &c.GDP, &c.Personnel, &c.Region, &c.Continent, &c.Alliance)
	return c, err
}

// countryArgs: positional arguments of upsertCountry for the row at pos.
func countryArgs(pos int, c dataset.Country) []any {
	return []any{pos, c.Name, c.PowerIndex, c.MilitaryBudget, c.GDP, c.Personnel, c.Region, c.Continent, c.Alliance}
}

// LoadCountries returns every row in position order.
func (s *Store) LoadCountries(ctx context.Context) ([]dataset.Country, error) {
	rows, err := s.db.QueryContext(ctx, selectCountries)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()
	var out []dataset.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_countries_loaded", "rows", len(out))
	return out, nil
}

func (s *Store) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM _mil_countries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return n, nil
}

// SeedCountries replaces the table contents with rows in one transaction; positions start at 0.
// Background: seed-db and first startup share this path, so a rerun converges on the same rows.
// Constraint: any failed statement rolls the whole transaction back; a half-seeded table is never visible.
func (s *Store) SeedCountries(ctx context.Context, rows []dataset.Country) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM _mil_countries"); err != nil {
		return fmt.Errorf("clear countries: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertCountry)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, c := range rows {
		if _, err := stmt.ExecContext(ctx, countryArgs(i, c)...); err != nil {
			return fmt.Errorf("insert %s: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_countries_seeded", "rows", len(rows))
	return nil
}

// LoadTable seeds an empty table with seed, then loads and validates the stored rows.
// Background: the dashboard reads the table once at startup and never writes it afterwards.
// Constraint: a populated table is never reseeded; invalid stored rows fail startup.
func (s *Store) LoadTable(ctx context.Context, seed []dataset.Country) (*dataset.Table, error) {
	n, err := s.CountRows(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 && len(seed) > 0 {
		logger.L().Info("db_countries_empty_seeding", "rows", len(seed))
		if err := s.SeedCountries(ctx, seed); err != nil {
			return nil, err
		}
	}
	rows, err := s.LoadCountries(ctx)
	if err != nil {
		return nil, err
	}
	return dataset.NewTable(rows)
}
