package models

import (
	"time"

	"github.com/google/uuid"
)

type MerchantStatus string

const (
	MerchantStatusPending  MerchantStatus = "PENDING"
	MerchantStatusApproved MerchantStatus = "APPROVED"
	MerchantStatusRejected MerchantStatus = "REJECTED"
)

// Merchant is a business account owned by exactly one user. Its approval
// status gates whether its deals can go live.
type Merchant struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID     uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"owner_user_id"`
	Name            string         `json:"name"`
	Status          MerchantStatus `gorm:"default:PENDING" json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type MerchantRegisterRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type MerchantRejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}
