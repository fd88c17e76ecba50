// Package api registers the dashboard's HTTP routes: the HTML page, the JSON API under the
// configured base, the chart images and the operational endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"milpower/internal/dashboard"
	"milpower/internal/dataset"
	"milpower/internal/geo"
	"milpower/internal/logger"
	"milpower/internal/metrics"
	"milpower/internal/stats"
	"milpower/internal/web"
)

// Deps: everything the routes read. Table is never mutated after startup.
type Deps struct {
	Table    *dataset.Table
	Counter  stats.Counter
	Renderer *web.Renderer
	APIBase  string
}

type server struct {
	Deps
}

// BuildRoutes returns the JSON API mux; mount it under APIBase with http.StripPrefix.
func BuildRoutes(d Deps) *http.ServeMux {
	s := &server{Deps: d}
	apiMux := http.NewServeMux()
	apiMux.Handle("/pages", s.instrument("pages", s.handlePages))
	apiMux.Handle("/options", s.instrument("options", s.handleOptions))
	apiMux.Handle("/quick-stats", s.instrument("quick_stats", s.handleQuickStats))
	apiMux.Handle("/countries", s.instrument("countries", s.handleCountries))
	apiMux.Handle("/stats", s.instrument("stats", s.handleStats))
	return apiMux
}

// NewHandler assembles the whole site.
// Background: HTML pages, chart images and the JSON API share one Deps and one table.
// Constraint: the handler never mutates d.Table; a counter failure is logged and never fails a page.
func NewHandler(d Deps) http.Handler {
	s := &server{Deps: d}
	mux := http.NewServeMux()
	mux.Handle(d.APIBase+"/", http.StripPrefix(d.APIBase, BuildRoutes(d)))
	mux.Handle(d.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("/charts/top5.svg", s.handleTop5SVG)
	mux.HandleFunc("/charts/bubble.svg", s.handleBubbleSVG)
	mux.Handle("/static/", web.Static())
	mux.HandleFunc("/config.js", web.ConfigJS(d.APIBase))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownPage):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= 500 {
		logger.L().Error("request_error", "path", r.URL.Path, "err", err)
		writeJSON(w, code, map[string]string{"error": http.StatusText(code)})
		return
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type codeRecorder struct {
	http.ResponseWriter
	code int
}

func (c *codeRecorder) WriteHeader(code int) {
	c.code = code
	c.ResponseWriter.WriteHeader(code)
}

func (s *server) instrument(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("allow", "GET, HEAD")
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			metrics.APIRequestsTotal.WithLabelValues(endpoint, "4xx").Inc()
			return
		}
		rec := &codeRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		metrics.APIRequestsTotal.WithLabelValues(endpoint, metrics.CodeClass(rec.code)).Inc()
	})
}

func observe(what string, t0 time.Time) {
	metrics.RenderDurationMs.WithLabelValues(what).Observe(float64(time.Since(t0).Microseconds()) / 1000)
}

// countView records a page view; counter failures are logged and never fail the request.
func (s *server) countView(ctx context.Context, page string) {
	metrics.PageViewsTotal.WithLabelValues(page).Inc()
	if s.Counter == nil {
		return
	}
	if err := s.Counter.Incr(ctx, page); err != nil {
		metrics.StatsErrorsTotal.Inc()
		logger.L().Warn("stats_incr_error", "page", page, "err", err)
	}
}

// quickStats builds the view for the request's selection and attaches the visitor's country.
func (s *server) quickStats(r *http.Request) (*dashboard.QuickStatsView, error) {
	opts, err := dashboard.OptionsFor(s.Table)
	if err != nil {
		return nil, err
	}
	sel, err := opts.ParseSelection(r.URL.Query().Get)
	if err != nil {
		return nil, err
	}
	t0 := time.Now()
	v, err := dashboard.QuickStats(s.Table, sel)
	observe("quick_stats", t0)
	if err != nil {
		return nil, err
	}
	if v.Empty {
		metrics.EmptySelectionsTotal.Inc()
	}
	if loc := geo.FromContext(r.Context()); loc.Known() {
		v.WithVisitor(loc.ISO, loc.Country)
	}
	return v, nil
}
