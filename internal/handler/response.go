package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// decodeJSON reads exactly one JSON object into dst. Unknown fields, wrong
// types, trailing data and oversize bodies are all bad_request.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.BadRequest("request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.BadRequest("request body is empty")
		default:
			return apperrors.BadRequest("invalid JSON body").WithCause(err)
		}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apperrors.BadRequest("unexpected data after JSON body")
	}
	return nil
}
