package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/voucher-server-go/internal/config"
	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.StorePingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check: store ping failed")
		writeError(w, apperrors.Server(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UnixMilli(),
	})
}
