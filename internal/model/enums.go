package model

type VoucherStatus string

const (
	VoucherStatusValid    VoucherStatus = "valid"
	VoucherStatusRedeemed VoucherStatus = "redeemed"
	VoucherStatusExpired  VoucherStatus = "expired"
)
