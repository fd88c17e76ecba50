// Package geo resolves the visitor's country from a GeoLite2 Country database and carries it
// on the request context. Without a database every visitor is unknown.
package geo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"milpower/internal/logger"
	"milpower/internal/metrics"
)

// Location: resolved visitor country. Zero value means unknown.
type Location struct {
	IP      string
	ISO     string
	Country string
}

func (l Location) Known() bool { return l.Country != "" }

// Resolver looks up countries; a nil db disables lookups.
type Resolver struct {
	db *geoip2.Reader
}

// Open loads the database at path. An empty path yields a disabled resolver.
// Background: visitor country is an optional highlight; the dashboard works without it.
// Constraint: a configured path that cannot be opened is an error, not a silent disable.
func Open(path string) (*Resolver, error) {
	if path == "" {
		return &Resolver{}, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db %s: %w", path, err)
	}
	return &Resolver{db: db}, nil
}

func (r *Resolver) Enabled() bool { return r != nil && r.db != nil }

func (r *Resolver) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.db.Close()
}

// Lookup returns the country of ip; failures resolve to an unknown location.
func (r *Resolver) Lookup(ip string) Location {
	loc := Location{IP: ip}
	if !r.Enabled() {
		return loc
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		metrics.GeoLookupsTotal.WithLabelValues("bad_ip").Inc()
		return loc
	}
	rec, err := r.db.Country(parsed)
	if err != nil || rec == nil || rec.Country.IsoCode == "" {
		metrics.GeoLookupsTotal.WithLabelValues("miss").Inc()
		if err != nil {
			logger.L().Debug("geo_lookup_error", "ip", ip, "error", err)
		}
		return loc
	}
	metrics.GeoLookupsTotal.WithLabelValues("hit").Inc()
	loc.ISO = rec.Country.IsoCode
	loc.Country = rec.Country.Names["en"]
	return loc
}

type ctxKey struct{}

// FromContext returns the location stored by Middleware, or the zero Location.
func FromContext(ctx context.Context) Location {
	l, _ := ctx.Value(ctxKey{}).(Location)
	return l
}

func WithLocation(ctx context.Context, l Location) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Middleware resolves the client IP of every request and injects the result.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		loc := r.Lookup(ClientIP(req))
		next.ServeHTTP(w, req.WithContext(WithLocation(req.Context(), loc)))
	})
}

// ClientIP takes the first proxy header present, then falls back to RemoteAddr.
// Headers are trusted as-is; deploy behind a proxy that overwrites them.
func ClientIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("X-Forwarded-For"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("X-Real-IP"); x != "" {
		return strings.TrimSpace(x)
	}
	if x := h.Get("CF-Connecting-IP"); x != "" {
		return strings.TrimSpace(x)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
