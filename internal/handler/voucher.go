package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openclaw/voucher-server-go/internal/model"
	"github.com/openclaw/voucher-server-go/internal/service"
)

type VoucherHandler struct {
	vouchers      *service.VoucherService
	redeemLimiter func(http.Handler) http.Handler
}

func NewVoucherHandler(vouchers *service.VoucherService, redeemLimiter func(http.Handler) http.Handler) *VoucherHandler {
	return &VoucherHandler{
		vouchers:      vouchers,
		redeemLimiter: redeemLimiter,
	}
}

func (h *VoucherHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.Create)
	r.With(h.redeemLimiter).Post("/redeem", h.Redeem)
	r.Get("/{voucherId}", h.Get)

	return r
}

type createVoucherResponse struct {
	OK bool `json:"ok"`
	service.CreateVoucherResult
}

func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateVoucherInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.vouchers.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createVoucherResponse{OK: true, CreateVoucherResult: *result})
}

type getVoucherResponse struct {
	OK      bool               `json:"ok"`
	Voucher *model.VoucherView `json:"voucher"`
}

func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.vouchers.Get(r.Context(), chi.URLParam(r, "voucherId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getVoucherResponse{OK: true, Voucher: view})
}

type redeemResponse struct {
	OK bool `json:"ok"`
	service.RedeemResult
}

func (h *VoucherHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req service.RedeemInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.vouchers.Redeem(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, redeemResponse{OK: true, RedeemResult: *result})
}
