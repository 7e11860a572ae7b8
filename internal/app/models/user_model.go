package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleMerchant UserRole = "MERCHANT"
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleOwner    UserRole = "OWNER"
)

// User is the local account record backing an externally-authenticated
// principal. ConnectID is the identity provider's subject id.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConnectID   string    `gorm:"uniqueIndex" json:"connect_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `gorm:"default:USER" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Principal is the authenticated identity returned by the external
// session provider.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleOwner
}
