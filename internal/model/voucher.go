package model

import "time"

// Voucher is a single-use reward grant unlocked at a game checkpoint.
// All timestamps are unix milliseconds. RedeemedAt is set if and only if
// Status is VoucherStatusRedeemed.
type Voucher struct {
	VoucherID       string        `json:"voucherId"`
	GameID          string        `json:"gameId"`
	CheckpointIndex int           `json:"checkpointIndex"`
	PartnerID       string        `json:"partnerId"`
	RewardID        string        `json:"rewardId"`
	Status          VoucherStatus `json:"status"`
	CreatedAt       int64         `json:"createdAt"`
	ExpiresAt       int64         `json:"expiresAt"`
	RedeemedAt      *int64        `json:"redeemedAt"`
}

// VoucherView is the public projection returned by the read endpoint.
type VoucherView struct {
	VoucherID string        `json:"voucherId"`
	PartnerID string        `json:"partnerId"`
	RewardID  string        `json:"rewardId"`
	Status    VoucherStatus `json:"status"`
	ExpiresAt int64         `json:"expiresAt"`
	CreatedAt int64         `json:"createdAt"`
}

// EffectiveStatus computes the status a voucher has at now, independent of
// any lag in the persisted Status field. Redeemed and expired are terminal.
// A missing or non-positive ExpiresAt is treated as expired. Persisted values
// outside the known set are returned unchanged and never become valid.
func EffectiveStatus(v *Voucher, now time.Time) VoucherStatus {
	switch v.Status {
	case VoucherStatusRedeemed:
		return VoucherStatusRedeemed
	case VoucherStatusExpired:
		return VoucherStatusExpired
	}

	if v.ExpiresAt <= 0 || now.UnixMilli() > v.ExpiresAt {
		return VoucherStatusExpired
	}

	if v.Status == VoucherStatusValid {
		return VoucherStatusValid
	}
	return v.Status
}

// View returns the public projection with the given effective status.
func (v *Voucher) View(status VoucherStatus) VoucherView {
	return VoucherView{
		VoucherID: v.VoucherID,
		PartnerID: v.PartnerID,
		RewardID:  v.RewardID,
		Status:    status,
		ExpiresAt: v.ExpiresAt,
		CreatedAt: v.CreatedAt,
	}
}

// MarkRedeemed returns a copy of v in the terminal redeemed state.
func (v *Voucher) MarkRedeemed(at int64) *Voucher {
	next := *v
	next.Status = VoucherStatusRedeemed
	next.RedeemedAt = &at
	return &next
}

// MarkExpired returns a copy of v with the persisted status corrected to expired.
func (v *Voucher) MarkExpired() *Voucher {
	next := *v
	next.Status = VoucherStatusExpired
	next.RedeemedAt = nil
	return &next
}
