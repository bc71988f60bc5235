package utils

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

var privateRanges = []*net.IPNet{
	mustParseCIDR("10.0.0.0/8"),
	mustParseCIDR("172.16.0.0/12"),
	mustParseCIDR("192.168.0.0/16"),
	mustParseCIDR("127.0.0.0/8"),
	mustParseCIDR("169.254.0.0/16"), // link-local IPv4
	mustParseCIDR("::1/128"),
	mustParseCIDR("fe80::/10"), // link-local IPv6
	mustParseCIDR("fc00::/7"),  // unique local IPv6
}

// OriginPolicy decides which browser origins may call the JSON API.
// Local-network origins are always allowed; Extra adds exact origins such as
// "https://movies.example.com".
type OriginPolicy struct {
	Extra []string
}

// Allowed reports whether origin may be reflected in CORS headers.
func (p OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, extra := range p.Extra {
		if strings.EqualFold(strings.TrimRight(extra, "/"), origin) {
			return true
		}
	}
	return IsAllowedOrigin(origin)
}

// IsAllowedOrigin allows localhost, private and link-local IPs, .local
// hostnames and single-label hostnames. Public origins are refused.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	switch {
	case hostname == "localhost":
		return true
	case strings.HasSuffix(hostname, ".local"):
		return true
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return isPrivateIP(ip)
	}
	return !strings.Contains(hostname, ".")
}

func isPrivateIP(ip net.IP) bool {
	for _, network := range privateRanges {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func mustParseCIDR(s string) *net.IPNet {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	return network
}

// CORSMiddleware reflects allowed origins and answers preflight requests.
func CORSMiddleware(policy OriginPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if policy.Allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
