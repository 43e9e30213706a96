package middleware

import (
	"net/http"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/httputil"
)

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func writeErrorCode(w http.ResponseWriter, code apperrors.ErrorCode) {
	httputil.WriteErrorCode(w, code)
}
