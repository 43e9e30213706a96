package service

import (
	"math"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/util"
)

// Field limits. Lengths count runes.
const (
	MaxGameIDLen       = 120
	MaxPartnerIDLen    = 80
	MaxRewardIDLen     = 80
	MaxVoucherIDLen    = 120
	MaxCheckpointIndex = 999
	MaxTTLMinutes      = 43200
	MinPinLen          = 3
	MaxPinLen          = 32
)

// CreateVoucherInput is the body of POST /vouchers/create. Numbers are
// pointers so a missing field can be told apart from zero.
type CreateVoucherInput struct {
	GameID          string   `json:"gameId"`
	CheckpointIndex *float64 `json:"checkpointIndex"`
	PartnerID       string   `json:"partnerId"`
	RewardID        string   `json:"rewardId"`
	TTLMinutes      *float64 `json:"ttlMinutes"`
}

func (in *CreateVoucherInput) Validate() error {
	if err := util.CheckString("gameId", in.GameID, MaxGameIDLen); err != nil {
		return err
	}
	if err := util.CheckInt("checkpointIndex", in.CheckpointIndex, 0, MaxCheckpointIndex); err != nil {
		return err
	}
	if err := util.CheckString("partnerId", in.PartnerID, MaxPartnerIDLen); err != nil {
		return err
	}
	if err := util.CheckString("rewardId", in.RewardID, MaxRewardIDLen); err != nil {
		return err
	}
	if err := util.CheckPositive("ttlMinutes", in.TTLMinutes, MaxTTLMinutes); err != nil {
		return err
	}
	if in.ttlMillis() < 1 {
		return apperrors.InvalidField("ttlMinutes", "must be at least one millisecond")
	}
	return nil
}

func (in *CreateVoucherInput) ttlMillis() int64 {
	return int64(math.Floor(*in.TTLMinutes * 60_000))
}

// RedeemInput is the body of POST /vouchers/redeem.
type RedeemInput struct {
	VoucherID string `json:"voucherId"`
	PartnerID string `json:"partnerId"`
	Pin       string `json:"pin"`
}

func (in *RedeemInput) Validate() error {
	if err := ValidateVoucherID(in.VoucherID); err != nil {
		return err
	}
	if err := util.CheckString("partnerId", in.PartnerID, MaxPartnerIDLen); err != nil {
		return err
	}
	// Length rules belong to set-pin; a short PIN here is just a wrong PIN.
	return util.CheckString("pin", in.Pin, MaxPinLen)
}

// SetPinInput is the body of POST /partners/set-pin.
type SetPinInput struct {
	PartnerID string `json:"partnerId"`
	Pin       string `json:"pin"`
}

func (in *SetPinInput) Validate() error {
	if err := util.CheckString("partnerId", in.PartnerID, MaxPartnerIDLen); err != nil {
		return err
	}
	return util.CheckLength("pin", in.Pin, MinPinLen, MaxPinLen)
}

func ValidateVoucherID(id string) error {
	return util.CheckString("voucherId", id, MaxVoucherIDLen)
}
