package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/openclaw/voucher-server-go/internal/audit"
	"github.com/openclaw/voucher-server-go/internal/config"
	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

var (
	corsAllowMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsAllowHeaders = strings.Join([]string{"Content-Type", AdminKeyHeader}, ", ")
)

// OriginGate enforces the browser origin allowlist. Requests without an
// Origin header (server-to-server, curl) pass untouched, and OPTIONS is
// answered with 204 without CORS headers. A disallowed origin
// is rejected for every method, so it is a hard gate and not only CORS.
type OriginGate struct {
	allowed map[string]struct{}
}

func NewOriginGate(origins []string) *OriginGate {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &OriginGate{allowed: allowed}
}

func (g *OriginGate) Allowed(origin string) bool {
	_, ok := g.allowed[origin]
	return ok
}

func (g *OriginGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if !g.Allowed(origin) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventOriginRejected,
				Details: map[string]interface{}{"origin": origin, "path": r.URL.Path},
			})
			writeErrorCode(w, apperrors.ErrCodeForbidden)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Max-Age", strconv.Itoa(config.CORSMaxAgeSeconds))

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
