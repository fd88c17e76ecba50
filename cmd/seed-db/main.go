// seed-db: ensures the countries schema and rewrites it with the built-in sample rows.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"milpower/internal/config"
	"milpower/internal/dataset"
	"milpower/internal/logger"
	"milpower/internal/migrate"
	"milpower/internal/store"
	"milpower/internal/utils"
)

func main() {
	config.LoadDotenv(".env", filepath.Join("data", "env", ".env"))
	onlyIfEmpty := flag.Bool("if-empty", false, "seed only when the table has no rows")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("config_error", "err", err)
		os.Exit(1)
	}
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := utils.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	st := store.AttachDB(db)
	defer st.Close()

	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}
	rows := dataset.Sample()
	if _, err := dataset.NewTable(rows); err != nil {
		l.Error("sample_invalid", "err", err)
		os.Exit(1)
	}
	if *onlyIfEmpty {
		n, err := st.CountRows(ctx)
		if err != nil {
			l.Error("count_error", "err", err)
			os.Exit(1)
		}
		if n > 0 {
			l.Info("seed_skipped", "rows", n)
			return
		}
	}
	if err := st.SeedCountries(ctx, rows); err != nil {
		l.Error("seed_error", "err", err)
		os.Exit(1)
	}
	l.Info("seed_done", "rows", len(rows))
}
