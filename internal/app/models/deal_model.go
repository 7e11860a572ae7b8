package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DealType string

const (
	DealTypeStandard DealType = "STANDARD"
	DealTypeInstant  DealType = "INSTANT"
)

type DealStatus string

const (
	DealStatusPendingApproval DealStatus = "PENDING_APPROVAL"
	DealStatusLive            DealStatus = "LIVE"
	DealStatusPaused          DealStatus = "PAUSED"
	DealStatusRejected        DealStatus = "REJECTED"
	DealStatusExpired         DealStatus = "EXPIRED"
)

// Deal is a time-boxed discount offer tied to one venue. Deals are never
// deleted, only status-transitioned. A nil EndAt means the window is
// open-ended; a nil MaxRedemptions means uncapped.
type Deal struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	VenueID         uuid.UUID        `gorm:"type:uuid;index" json:"venue_id"`
	MerchantID      uuid.UUID        `gorm:"type:uuid;index" json:"merchant_id"`
	Title           string           `json:"title"`
	Description     *string          `json:"description,omitempty"`
	PercentOff      decimal.Decimal  `gorm:"type:decimal(5,2)" json:"percent_off"`
	MinSpend        *decimal.Decimal `gorm:"type:decimal(18,2)" json:"min_spend,omitempty"`
	Type            DealType         `gorm:"default:STANDARD" json:"type"`
	StartAt         time.Time        `json:"start_at"`
	EndAt           *time.Time       `json:"end_at,omitempty"`
	MaxRedemptions  *int             `json:"max_redemptions,omitempty"`
	RedeemedCount   int              `json:"redeemed_count"`
	Status          DealStatus       `gorm:"index;default:PENDING_APPROVAL" json:"status"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	Tags            []string         `gorm:"serializer:json" json:"tags,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectiveStatus folds the clock into the stored status so list reads
// never render a deal as LIVE after its window has closed, regardless of
// when the expiry sweep last ran.
func (d *Deal) EffectiveStatus(now time.Time) DealStatus {
	if d.Status == DealStatusLive && d.EndAt != nil && !now.Before(*d.EndAt) {
		return DealStatusExpired
	}
	return d.Status
}

type DealCreateRequest struct {
	VenueID        string           `json:"venue_id" validate:"required,uuid"`
	Title          string           `json:"title" validate:"required,max=255"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	PercentOff     decimal.Decimal  `json:"percent_off" validate:"required"`
	MinSpend       *decimal.Decimal `json:"min_spend,omitempty"`
	Type           DealType         `json:"type" validate:"omitempty,oneof=STANDARD INSTANT"`
	StartAt        time.Time        `json:"start_at" validate:"required"`
	EndAt          *time.Time       `json:"end_at,omitempty"`
	MaxRedemptions *int             `json:"max_redemptions,omitempty" validate:"omitempty,min=1"`
	Tags           []string         `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50"`
}

type DealRejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type DealExtendRequest struct {
	AddMinutes int `json:"add_minutes" validate:"required,min=1"`
}
