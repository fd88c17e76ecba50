package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"milpower/internal/logger"
)

// AllowList admits only clients whose address is inside one of its networks.
// The client address is RemoteAddr; proxy headers are not consulted here.
type AllowList struct {
	nets []*net.IPNet
}

// NewAllowList parses CIDRs and bare IPs. allowLocal adds the loopback addresses.
// Constraint: one malformed entry fails the whole list so a typo never opens the service.
func NewAllowList(entries []string, allowLocal bool) (*AllowList, error) {
	a := &AllowList{}
	if allowLocal {
		entries = append(entries, "127.0.0.0/8", "::1/128")
	}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, fmt.Errorf("allow list: bad address %q", e)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
				ip = ip.To4()
			}
			a.nets = append(a.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(e)
		if err != nil {
			return nil, fmt.Errorf("allow list: %w", err)
		}
		a.nets = append(a.nets, n)
	}
	return a, nil
}

func (a *AllowList) Empty() bool { return len(a.nets) == 0 }

func (a *AllowList) Allowed(ip net.IP) bool {
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Wrap answers 403 for clients outside the list. An empty list lets everyone through.
func (a *AllowList) Wrap(next http.Handler) http.Handler {
	if a.Empty() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip := net.ParseIP(host)
		if ip == nil || !a.Allowed(ip) {
			logger.L().Debug("allowlist_block", "remote", r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
