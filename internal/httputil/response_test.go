package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusFromCode(t *testing.T) {
	want := map[apperrors.ErrorCode]int{
		apperrors.ErrCodeBadRequest:      http.StatusBadRequest,
		apperrors.ErrCodeForbidden:       http.StatusForbidden,
		apperrors.ErrCodeNotFound:        http.StatusNotFound,
		apperrors.ErrCodeAlreadyRedeemed: http.StatusConflict,
		apperrors.ErrCodeExpired:         http.StatusGone,
		apperrors.ErrCodeCorrupt:         http.StatusInternalServerError,
		apperrors.ErrCodeServerError:     http.StatusInternalServerError,
		apperrors.ErrCodeRateLimited:     http.StatusTooManyRequests,
	}

	for _, code := range apperrors.AllCodes {
		t.Run(string(code), func(t *testing.T) {
			status, ok := want[code]
			require.True(t, ok, "no expected status for %s", code)
			assert.Equal(t, status, StatusFromCode(code))
		})
	}

	assert.Equal(t, http.StatusInternalServerError, StatusFromCode("something_else"))
}

func TestWriteError(t *testing.T) {
	t.Run("bad request carries message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.MissingField("gameId"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "gameId is required", body["message"])
	})

	t.Run("forbidden has no message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Forbidden())

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, map[string]any{"ok": false, "error": "forbidden"}, body)
	})

	t.Run("corrupt hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Corrupt(errors.New("voucher:abc bad json")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "voucher:abc")
		assert.Equal(t, "corrupt", decodeBody(t, rec)["error"])
	})

	t.Run("plain error becomes server_error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("dial tcp 10.0.0.1:6379: refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		assert.Equal(t, map[string]any{"ok": false, "error": "server_error"}, decodeBody(t, rec))
	})

	t.Run("wrapped app error keeps its code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.Join(errors.New("ctx"), apperrors.Expired()))

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Equal(t, "expired", decodeBody(t, rec)["error"])
	})
}

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOK(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
