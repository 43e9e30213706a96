package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/openclaw/voucher-server-go/internal/config"
	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/httputil"
	"github.com/openclaw/voucher-server-go/internal/middleware"
	"github.com/openclaw/voucher-server-go/internal/service"
)

// Deps is everything the router needs. Limiter may be nil, in which case
// an in-process limiter is used.
type Deps struct {
	Vouchers        *service.VoucherService
	Partners        *service.PartnerService
	Store           Pinger
	AllowedOrigins  []string
	AdminKey        string
	Limiter         middleware.Limiter
	RateLimitPerMin int
	IsProduction    bool
	MaxBodyBytes    int64
}

func NewRouter(d Deps) http.Handler {
	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewMemoryRateLimiter()
	}

	originGate := middleware.NewOriginGate(d.AllowedOrigins)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(d.IsProduction)
	bodyLimit := middleware.NewBodyLimitMiddleware(d.MaxBodyBytes)
	adminKey := middleware.NewAdminKeyMiddleware(d.AdminKey)
	redeemLimit := middleware.NewRateLimitMiddleware(limiter, d.RateLimitPerMin, "redeem")
	setPinLimit := middleware.NewRateLimitMiddleware(limiter, d.RateLimitPerMin, "set-pin")

	voucherHandler := NewVoucherHandler(d.Vouchers, redeemLimit.Handler)
	partnerHandler := NewPartnerHandler(d.Partners, adminKey.Handler, setPinLimit.Handler)
	healthHandler := NewHealthHandler(d.Store)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders.Handler)
	r.Use(originGate.Handler)
	r.Use(middleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimit.Handler)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Method(http.MethodGet, "/health", healthHandler)
	r.Mount("/vouchers", voucherHandler.Routes())
	r.Mount("/partners", partnerHandler.Routes())

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteErrorCode(w, apperrors.ErrCodeNotFound)
}
