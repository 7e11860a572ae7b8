package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
)

// AuditLog records a mutation to any entity in the system. Writes are
// best-effort; a lost audit row never fails the primary operation.
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TableName string      `gorm:"type:varchar(50);not null" json:"table_name"`
	RecordID  uuid.UUID   `gorm:"type:uuid;not null" json:"record_id"`
	Action    AuditAction `gorm:"not null" json:"action"`
	OldData   *string     `json:"old_data,omitempty"`
	NewData   *string     `json:"new_data,omitempty"`
	ChangedBy *uuid.UUID  `gorm:"type:uuid" json:"changed_by,omitempty"`
	ChangedAt time.Time   `gorm:"not null" json:"changed_at"`
}
