package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"milpower/internal/charts"
	"milpower/internal/dashboard"
	"milpower/internal/dataset"
	"milpower/internal/logger"
	"milpower/internal/metrics"
	"milpower/internal/web"
)

const statsTimeout = 2 * time.Second

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, dashboard.ErrUnknownPage)
		return
	}
	page, err := dashboard.Lookup(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var p web.Page
	if page.Slug == dashboard.PageQuickStats {
		v, err := s.quickStats(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p = web.NewQuickStatsPage(page, v)
	} else {
		p = web.NewPlaceholderPage(page)
	}
	ctx, cancel := context.WithTimeout(r.Context(), statsTimeout)
	s.countView(ctx, page.Slug)
	cancel()

	t0 := time.Now()
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	if err := s.Renderer.Render(w, p); err != nil {
		logger.L().Error("render_error", "page", page.Slug, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	observe("page", t0)
}

func (s *server) handlePages(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Default string           `json:"default"`
		Pages   []dashboard.Page `json:"pages"`
	}{Default: dashboard.PageQuickStats, Pages: dashboard.Pages()}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := dashboard.OptionsFor(s.Table)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": opts, "default": opts.Default()})
}

func (s *server) handleQuickStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.quickStats(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"count": s.Table.Len(), "rows": s.Table.Rows()})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Counter == nil {
		writeJSON(w, http.StatusOK, map[string]any{"backend": "none", "total": 0, "today": 0, "pages": map[string]int64{}})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), statsTimeout)
	defer cancel()
	t, err := s.Counter.Totals(ctx)
	if err != nil {
		metrics.StatsErrorsTotal.Inc()
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": s.Table.Len()})
}

func (s *server) handleTop5SVG(w http.ResponseWriter, r *http.Request) {
	top, err := s.Table.NSmallest(5, dataset.FieldPowerIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t0 := time.Now()
	svg, err := charts.Top5SVG(top, 0, 0)
	observe("top5_svg", t0)
	s.writeSVG(w, r, "top5", svg, err, charts.BarHeight)
}

func (s *server) handleBubbleSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := dashboard.OptionsFor(s.Table)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sel, err := opts.ParseSelection(r.URL.Query().Get)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t0 := time.Now()
	svg, err := charts.BubbleSVG(s.Table.Filter(sel), 0, 0)
	observe("bubble_svg", t0)
	s.writeSVG(w, r, "bubble", svg, err, charts.BubbleHeight)
}

// writeSVG answers with the chart, or the no-data placeholder when the subset is empty.
func (s *server) writeSVG(w http.ResponseWriter, r *http.Request, chart string, svg []byte, err error, height int) {
	if errors.Is(err, charts.ErrNoData) {
		svg, err = charts.NoDataSVG(0, height)
	}
	if err != nil {
		metrics.ChartErrorsTotal.WithLabelValues(chart).Inc()
		logger.L().Error("chart_render_error", "chart", chart, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	w.Header().Set("content-type", "image/svg+xml")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(svg)
}
