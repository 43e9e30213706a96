package model

// PartnerCredential is the single credential record of a redemption partner.
// Writing it replaces any previous record for the same partner.
type PartnerCredential struct {
	PartnerID string `json:"partnerId"`
	PinHash   string `json:"pinHash"`
	UpdatedAt int64  `json:"updatedAt"`
}
