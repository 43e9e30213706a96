package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/voucher-server-go/internal/audit"
	"github.com/openclaw/voucher-server-go/internal/model"
	"github.com/openclaw/voucher-server-go/internal/repository"
	"github.com/openclaw/voucher-server-go/internal/util"
)

// PartnerService manages partner PIN credentials. Callers must have
// authenticated the request as admin before calling SetPin.
type PartnerService struct {
	partners repository.PartnerRepository
	pinSalt  string
	now      func() time.Time
}

func NewPartnerService(partners repository.PartnerRepository, pinSalt string, now func() time.Time) *PartnerService {
	if now == nil {
		now = time.Now
	}
	return &PartnerService{
		partners: partners,
		pinSalt:  pinSalt,
		now:      now,
	}
}

// SetPin replaces the partner's credential record. No PIN history is kept.
func (s *PartnerService) SetPin(ctx context.Context, in SetPinInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	cred := &model.PartnerCredential{
		PartnerID: in.PartnerID,
		PinHash:   util.HashPIN(in.Pin, s.pinSalt),
		UpdatedAt: s.now().UnixMilli(),
	}
	if err := s.partners.Upsert(ctx, cred); err != nil {
		return storeError("set partner pin", err)
	}

	audit.Log(ctx, audit.Event{Type: audit.EventPartnerPinSet, PartnerID: in.PartnerID})
	log.Info().Str("partnerId", in.PartnerID).Msg("partner pin updated")
	return nil
}
