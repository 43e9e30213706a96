package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debug().Err(err).Msg("failed to encode response")
	}
}

// OKResponse is the body of a success response with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// WriteOK writes 200 {"ok":true}.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	OK      bool                `json:"ok"`
	Error   apperrors.ErrorCode `json:"error"`
	Message string              `json:"message,omitempty"`
}

// WriteError writes err as an HTTP response. Errors that are not AppErrors
// become server_error. Only bad_request carries a message to the client.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Server(err)
	}

	status := StatusFromCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", string(appErr.Code)).Msg("request failed")
	}

	response := ErrorResponse{Error: appErr.Code}
	if appErr.Code == apperrors.ErrCodeBadRequest {
		response.Message = appErr.Message
	}
	WriteJSON(w, status, response)
}

// WriteErrorCode writes a bare error response for code.
func WriteErrorCode(w http.ResponseWriter, code apperrors.ErrorCode) {
	WriteJSON(w, StatusFromCode(code), ErrorResponse{Error: code})
}

// StatusFromCode maps ErrorCode to HTTP status code
func StatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeAlreadyRedeemed:
		return http.StatusConflict
	case apperrors.ErrCodeExpired:
		return http.StatusGone
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeCorrupt,
		apperrors.ErrCodeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
