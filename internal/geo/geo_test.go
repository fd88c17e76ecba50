package geo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for first hop", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:4000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:4000", "198.51.100.4"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "192.0.2.9"}, "10.0.0.2:4000", "192.0.2.9"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.4"}, "", "203.0.113.7"},
		{"remote ipv4", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote ipv6", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Fatalf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisabledResolver(t *testing.T) {
	r, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.Enabled() {
		t.Fatal("resolver without a database should be disabled")
	}
	if loc := r.Lookup("8.8.8.8"); loc.Known() || loc.IP != "8.8.8.8" {
		t.Fatalf("lookup = %+v", loc)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.mmdb"); err == nil {
		t.Fatal("expected an error for a missing database")
	}
}

func TestMiddlewareInjectsLocation(t *testing.T) {
	r, _ := Open("")
	var got Location
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = FromContext(req.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.4")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got.IP != "198.51.100.4" || got.Known() {
		t.Fatalf("location = %+v", got)
	}
	if FromContext(req.Context()).IP != "" {
		t.Fatal("bare context should hold no location")
	}
}
