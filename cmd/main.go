// Entry point: reads config, loads the country table, wires optional geo and counters, serves HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"milpower/internal/api"
	"milpower/internal/config"
	"milpower/internal/dataset"
	"milpower/internal/geo"
	"milpower/internal/logger"
	"milpower/internal/metrics"
	"milpower/internal/middleware"
	"milpower/internal/migrate"
	"milpower/internal/stats"
	"milpower/internal/store"
	"milpower/internal/utils"
	"milpower/internal/web"
)

func main() {
	config.LoadDotenv(".env", filepath.Join("data", "env", ".env"))
	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("config_error", "err", err)
		os.Exit(1)
	}
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "source", cfg.DataSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := loadTable(ctx, cfg, l)
	if err != nil {
		l.Error("table_load_error", "source", cfg.DataSource, "err", err)
		os.Exit(1)
	}
	metrics.RecordsLoaded.Set(float64(table.Len()))
	l.Info("table_loaded", "source", cfg.DataSource, "rows", table.Len())

	resolver, err := geo.Open(cfg.GeoIPDB)
	if err != nil {
		l.Error("geoip_open_error", "path", cfg.GeoIPDB, "err", err)
		resolver, _ = geo.Open("")
	}
	defer resolver.Close()
	l.Info("geoip", "enabled", resolver.Enabled())

	var counter stats.Counter = stats.NewMemory()
	if rc := utils.OpenRedis(cfg.Redis); rc != nil {
		defer rc.Close()
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pctx).Err()
		cancel()
		if err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		counter = stats.NewRedis(rc)
	} else {
		l.Info("redis_disabled")
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		l.Error("template_error", "err", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.Deps{Table: table, Counter: counter, Renderer: renderer, APIBase: cfg.APIBase})
	var guard func(http.Handler) http.Handler = func(h http.Handler) http.Handler { return h }
	if cfg.RateLimit {
		guard = func(h http.Handler) http.Handler { return middleware.RateLimit(cfg.RateLimitQPS, h) }
	}
	// ALLOW_LOCAL only widens an explicit ALLOW_CIDRS list.
	var allowEntries []string
	if len(cfg.AllowCIDRs) > 0 {
		allowEntries = cfg.AllowCIDRs
	}
	allow, err := middleware.NewAllowList(allowEntries, len(allowEntries) > 0 && cfg.AllowLocal)
	if err != nil {
		l.Error("allowlist_error", "err", err)
		os.Exit(1)
	}
	l.Info("allowlist", "enabled", !allow.Empty(), "entries", len(allowEntries))
	handler = middleware.Chain(handler, logger.AccessMiddleware(l), allow.Wrap, guard, resolver.Middleware)

	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		if cfg.TLS.Enable {
			if err := utils.EnsureSelfSignedCert(cfg.TLS.CertPath, cfg.TLS.KeyPath, "milpower.local"); err != nil {
				errc <- err
				return
			}
			l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLS.CertPath)
			errc <- s.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
			return
		}
		l.Info("listening", "addr", cfg.Addr)
		errc <- s.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		l.Info("shutdown_begin")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil {
			l.Error("shutdown_error", "err", err)
		}
		l.Info("shutdown_done")
	}
}

// loadTable reads the record set once; postgres seeds itself from the sample when empty.
func loadTable(ctx context.Context, cfg config.Config, l *slog.Logger) (*dataset.Table, error) {
	if cfg.DataSource != config.SourcePostgres {
		return dataset.NewTable(dataset.Sample())
	}
	db, err := utils.OpenPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	st := store.AttachDB(db)
	defer st.Close()
	l.Info("db_open_ok", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return st.LoadTable(ctx, dataset.Sample())
}
