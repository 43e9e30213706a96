package audit

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventOriginRejected    EventType = "origin_rejected"
	EventAdminAuthFailure  EventType = "admin_auth_failure"
	EventPartnerPinSet     EventType = "partner_pin_set"
	EventWrongPartner      EventType = "wrong_partner"
	EventPinMismatch       EventType = "pin_mismatch"
	EventNoCredentials     EventType = "no_credentials"
	EventVoucherRedeemed   EventType = "voucher_redeemed"
	EventRateLimitExceeded EventType = "rate_limit_exceeded"
)

// Event is a security-relevant occurrence. Events are emitted as log lines
// only; nothing is persisted. Never put PINs, hashes or keys in Details.
type Event struct {
	Type      EventType
	PartnerID string
	VoucherID string
	IP        string
	UserAgent string
	Details   map[string]interface{}
}

func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.PartnerID != "" {
		logger = logger.With().Str("partner_id", event.PartnerID).Logger()
	}
	if event.VoucherID != "" {
		logger = logger.With().Str("voucher_id", event.VoucherID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("security audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = ClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(r.Context(), event)
}

// ClientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already replaced RemoteAddr with the forwarded address when present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
