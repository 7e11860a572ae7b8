package models

import (
	"time"

	"github.com/google/uuid"
)

type VoucherStatus string

const (
	VoucherStatusIssued    VoucherStatus = "ISSUED"
	VoucherStatusRedeemed  VoucherStatus = "REDEEMED"
	VoucherStatusExpired   VoucherStatus = "EXPIRED"
	VoucherStatusCancelled VoucherStatus = "CANCELLED"
)

// Voucher is one consumer's claim on one deal, identified by a globally
// unique human-presentable code. ExpiresAt is fixed at issuance and never
// changes. Vouchers are never deleted.
type Voucher struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string        `gorm:"uniqueIndex" json:"code"`
	UserID     uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	DealID     uuid.UUID     `gorm:"type:uuid;index" json:"deal_id"`
	Status     VoucherStatus `gorm:"index;default:ISSUED" json:"status"`
	ExpiresAt  time.Time     `json:"expires_at"`
	RedeemedAt *time.Time    `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectiveStatus folds the clock into the stored status so an ISSUED
// voucher past its expiry renders as EXPIRED between sweep ticks.
func (v *Voucher) EffectiveStatus(now time.Time) VoucherStatus {
	if v.Status == VoucherStatusIssued && now.After(v.ExpiresAt) {
		return VoucherStatusExpired
	}
	return v.Status
}

type VoucherClaimRequest struct {
	DealID string `json:"deal_id" validate:"required,uuid"`
}

type VoucherClaimResponse struct {
	VoucherID uuid.UUID `json:"voucher_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VoucherRedeemRequest carries either the structured scan payload or a
// bare code string; the service accepts both.
type VoucherRedeemRequest struct {
	Payload string `json:"payload,omitempty" validate:"omitempty,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,max=50"`
}

type VoucherRedeemResponse struct {
	RedeemedAt time.Time `json:"redeemed_at"`
}
