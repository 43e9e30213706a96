package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclaw/voucher-server-go/internal/httputil"
	"github.com/openclaw/voucher-server-go/internal/service"
)

type PartnerHandler struct {
	partners        *service.PartnerService
	adminMiddleware func(http.Handler) http.Handler
	rateLimiter     func(http.Handler) http.Handler
}

func NewPartnerHandler(
	partners *service.PartnerService,
	adminMiddleware func(http.Handler) http.Handler,
	rateLimiter func(http.Handler) http.Handler,
) *PartnerHandler {
	return &PartnerHandler{
		partners:        partners,
		adminMiddleware: adminMiddleware,
		rateLimiter:     rateLimiter,
	}
}

func (h *PartnerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.rateLimiter)
		r.Use(h.adminMiddleware)
		r.Post("/set-pin", h.SetPin)
	})

	return r
}

func (h *PartnerHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	var req service.SetPinInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.partners.SetPin(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteOK(w)
}
