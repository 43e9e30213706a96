package middleware

import (
	"net/http"

	"github.com/openclaw/voucher-server-go/internal/audit"
	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/util"
)

const AdminKeyHeader = "X-ADMIN-KEY"

// AdminKeyMiddleware guards admin routes with a shared secret header.
// An empty configured key rejects every request.
type AdminKeyMiddleware struct {
	key string
}

func NewAdminKeyMiddleware(key string) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{key: key}
}

func (m *AdminKeyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(AdminKeyHeader)

		if m.key == "" || !util.ConstantTimeEqual(provided, m.key) {
			reason := "mismatch"
			switch {
			case m.key == "":
				reason = "not_configured"
			case provided == "":
				reason = "missing"
			}
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAdminAuthFailure,
				Details: map[string]interface{}{"reason": reason, "path": r.URL.Path},
			})
			writeErrorCode(w, apperrors.ErrCodeForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
