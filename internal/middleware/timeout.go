package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

// Timeout bounds the request context. When the deadline passes and the
// handler has written nothing, the client gets server_error instead of the
// bare 504 chimiddleware.Timeout would send.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				log.Warn().
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("path", r.URL.Path).
					Dur("timeout", d).
					Msg("request timed out")
				writeErrorCode(ww, apperrors.ErrCodeServerError)
			}
		})
	}
}
