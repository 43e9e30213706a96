package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/voucher-server-go/internal/audit"
	"github.com/openclaw/voucher-server-go/internal/config"
	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/kvstore"
	"github.com/openclaw/voucher-server-go/internal/model"
	"github.com/openclaw/voucher-server-go/internal/repository"
	"github.com/openclaw/voucher-server-go/internal/util"
)

const maxIDAttempts = 3

type CreateVoucherResult struct {
	VoucherID string              `json:"voucherId"`
	ExpiresAt int64               `json:"expiresAt"`
	Status    model.VoucherStatus `json:"status"`
}

type RedeemResult struct {
	Status     model.VoucherStatus `json:"status"`
	RedeemedAt int64               `json:"redeemedAt"`
}

// VoucherService implements voucher creation, lookup and redemption.
// It keeps no state between calls; everything lives in the repositories.
//
// Redemption is read-then-write. The terminal write is a compare-and-swap
// on the stored status, so of two concurrent redemptions that both read
// "valid" only one write succeeds and the other answers already_redeemed.
type VoucherService struct {
	vouchers repository.VoucherRepository
	partners repository.PartnerRepository
	pinSalt  string
	now      func() time.Time
	newID    func() string
}

func NewVoucherService(
	vouchers repository.VoucherRepository,
	partners repository.PartnerRepository,
	pinSalt string,
	now func() time.Time,
) *VoucherService {
	if now == nil {
		now = time.Now
	}
	return &VoucherService{
		vouchers: vouchers,
		partners: partners,
		pinSalt:  pinSalt,
		now:      now,
		newID:    uuid.NewString,
	}
}

func (s *VoucherService) Create(ctx context.Context, in CreateVoucherInput) (*CreateVoucherResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	createdAt := s.now().UnixMilli()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		v := &model.Voucher{
			VoucherID:       s.newID(),
			GameID:          in.GameID,
			CheckpointIndex: int(*in.CheckpointIndex),
			PartnerID:       in.PartnerID,
			RewardID:        in.RewardID,
			Status:          model.VoucherStatusValid,
			CreatedAt:       createdAt,
			ExpiresAt:       createdAt + in.ttlMillis(),
		}

		err := s.vouchers.Create(ctx, v)
		if errors.Is(err, repository.ErrAlreadyExists) {
			log.Warn().Str("voucherId", v.VoucherID).Msg("voucher id collision, regenerating")
			continue
		}
		if err != nil {
			return nil, storeError("create voucher", err)
		}

		log.Info().
			Str("voucherId", v.VoucherID).
			Str("gameId", v.GameID).
			Int("checkpointIndex", v.CheckpointIndex).
			Str("partnerId", v.PartnerID).
			Int64("expiresAt", v.ExpiresAt).
			Msg("voucher created")

		return &CreateVoucherResult{
			VoucherID: v.VoucherID,
			ExpiresAt: v.ExpiresAt,
			Status:    v.Status,
		}, nil
	}

	return nil, apperrors.Server(fmt.Errorf("no free voucher id after %d attempts", maxIDAttempts))
}

func (s *VoucherService) Get(ctx context.Context, voucherID string) (*model.VoucherView, error) {
	if err := ValidateVoucherID(voucherID); err != nil {
		return nil, err
	}

	v, err := s.load(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	status := model.EffectiveStatus(v, s.now())
	if status == model.VoucherStatusExpired && v.Status == model.VoucherStatusValid {
		s.persistExpiry(ctx, v)
	}

	view := v.View(status)
	return &view, nil
}

func (s *VoucherService) Redeem(ctx context.Context, in RedeemInput) (*RedeemResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	v, err := s.load(ctx, in.VoucherID)
	if err != nil {
		return nil, err
	}

	if v.PartnerID != in.PartnerID {
		audit.Log(ctx, audit.Event{Type: audit.EventWrongPartner, PartnerID: in.PartnerID, VoucherID: v.VoucherID})
		return nil, apperrors.Forbidden()
	}

	now := s.now()
	switch model.EffectiveStatus(v, now) {
	case model.VoucherStatusValid:
	case model.VoucherStatusRedeemed:
		return nil, apperrors.AlreadyRedeemed()
	case model.VoucherStatusExpired:
		if v.Status == model.VoucherStatusValid {
			s.persistExpiry(ctx, v)
		}
		return nil, apperrors.Expired()
	default:
		log.Warn().Str("voucherId", v.VoucherID).Str("status", string(v.Status)).Msg("redeem: unknown voucher status")
		return nil, apperrors.Forbidden()
	}

	cred, err := s.partners.FindByID(ctx, in.PartnerID)
	if err != nil {
		return nil, storeError("find partner", err)
	}
	if cred == nil {
		audit.Log(ctx, audit.Event{Type: audit.EventNoCredentials, PartnerID: in.PartnerID, VoucherID: v.VoucherID})
		return nil, apperrors.Forbidden()
	}

	if !util.ConstantTimeEqual(util.HashPIN(in.Pin, s.pinSalt), cred.PinHash) {
		audit.Log(ctx, audit.Event{Type: audit.EventPinMismatch, PartnerID: in.PartnerID, VoucherID: v.VoucherID})
		return nil, apperrors.Forbidden()
	}

	redeemedAt := now.UnixMilli()

	// Redemption cannot be rolled back, so the write must not be cut short
	// by the caller going away.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.StoreWriteTimeout)
	defer cancel()

	swapped, err := s.vouchers.UpdateIfStatus(writeCtx, v.MarkRedeemed(redeemedAt), model.VoucherStatusValid)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, apperrors.NotFound()
	}
	if err != nil {
		return nil, storeError("redeem voucher", err)
	}
	if !swapped {
		return nil, s.lostRace(ctx, in.VoucherID)
	}

	audit.Log(ctx, audit.Event{Type: audit.EventVoucherRedeemed, PartnerID: in.PartnerID, VoucherID: v.VoucherID})
	log.Info().
		Str("voucherId", v.VoucherID).
		Str("partnerId", v.PartnerID).
		Int64("redeemedAt", redeemedAt).
		Msg("voucher redeemed")

	return &RedeemResult{Status: model.VoucherStatusRedeemed, RedeemedAt: redeemedAt}, nil
}

// lostRace classifies a failed compare-and-swap by re-reading the voucher.
func (s *VoucherService) lostRace(ctx context.Context, voucherID string) error {
	v, err := s.load(ctx, voucherID)
	if err != nil {
		return err
	}

	switch model.EffectiveStatus(v, s.now()) {
	case model.VoucherStatusRedeemed:
		log.Warn().Str("voucherId", voucherID).Msg("redeem: lost race to concurrent redemption")
		return apperrors.AlreadyRedeemed()
	case model.VoucherStatusExpired:
		return apperrors.Expired()
	default:
		return apperrors.Server(fmt.Errorf("voucher %s changed concurrently to %q", voucherID, v.Status))
	}
}

// persistExpiry stores a lazily discovered expiry. It only replaces a record
// still marked valid, so it can never undo a redemption. Failures are logged
// because reads recompute the status anyway.
func (s *VoucherService) persistExpiry(ctx context.Context, v *model.Voucher) {
	swapped, err := s.vouchers.UpdateIfStatus(ctx, v.MarkExpired(), model.VoucherStatusValid)
	if err != nil {
		log.Error().Err(err).Str("voucherId", v.VoucherID).Msg("failed to persist voucher expiry")
		return
	}
	if swapped {
		log.Info().Str("voucherId", v.VoucherID).Msg("voucher expired")
	}
}

func (s *VoucherService) load(ctx context.Context, voucherID string) (*model.Voucher, error) {
	v, err := s.vouchers.FindByID(ctx, voucherID)
	if err != nil {
		return nil, storeError("find voucher", err)
	}
	if v == nil {
		return nil, apperrors.NotFound()
	}
	return v, nil
}

func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrCorrupt) {
		return apperrors.Corrupt(fmt.Errorf("%s: %w", op, err))
	}
	return apperrors.Server(fmt.Errorf("%s: %w", op, err))
}
