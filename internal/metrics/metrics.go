package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PageViewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milpower_page_views_total",
		Help: "Dashboard page renders by page slug",
	}, []string{"page"})
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milpower_api_requests_total",
		Help: "JSON API requests by endpoint and status class",
	}, []string{"endpoint", "code"})
	RenderDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "milpower_render_duration_ms",
		Help:    "Page, view and chart render duration in milliseconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50, 100, 200},
	}, []string{"what"})
	EmptySelectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "milpower_empty_selections_total",
		Help: "Quick Stats selections that matched no rows",
	})
	ChartErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milpower_chart_errors_total",
		Help: "Chart render failures by chart",
	}, []string{"chart"})
	StatsErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "milpower_stats_errors_total",
		Help: "Page-view counter failures",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "milpower_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
	GeoLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "milpower_geo_lookups_total",
		Help: "Visitor country lookups by result",
	}, []string{"result"})
	RecordsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "milpower_records_loaded",
		Help: "Rows in the in-memory country table",
	})
)

func init() {
	prometheus.MustRegister(PageViewsTotal)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(EmptySelectionsTotal)
	prometheus.MustRegister(ChartErrorsTotal)
	prometheus.MustRegister(StatsErrorsTotal)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(GeoLookupsTotal)
	prometheus.MustRegister(RecordsLoaded)
}

// Handler exposes the default registry for Prometheus scraping; mounted under the API base.
func Handler() http.Handler { return promhttp.Handler() }

// CodeClass folds a status code into "2xx", "4xx", ... to keep label cardinality low.
func CodeClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}
