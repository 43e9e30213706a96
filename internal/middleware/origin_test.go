package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOriginGate(t *testing.T) {
	gate := NewOriginGate([]string{"https://game.example", "https://partner.example"})
	handler := gate.Handler(okHandler())

	t.Run("no origin passes without cors headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/vouchers/create", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("options without origin is answered with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/vouchers/redeem", nil)
		rec := httptest.NewRecorder()
		NewOriginGate(nil).Handler(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vouchers/abc", nil)
		req.Header.Set("Origin", "https://game.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://game.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-ADMIN-KEY", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("allowed preflight is answered with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/vouchers/redeem", nil)
		req.Header.Set("Origin", "https://partner.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "https://partner.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodOptions} {
		t.Run("disallowed origin rejected on "+method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/vouchers/create", nil)
			req.Header.Set("Origin", "https://evil.example")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.JSONEq(t, `{"ok":false,"error":"forbidden"}`, rec.Body.String())
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	t.Run("origin match is exact", func(t *testing.T) {
		for _, origin := range []string{"https://game.example/", "http://game.example", "https://GAME.example", "null"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code, origin)
		}
	})

	t.Run("empty allowlist rejects every browser origin", func(t *testing.T) {
		h := NewOriginGate(nil).Handler(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://game.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
