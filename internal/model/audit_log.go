package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditCreated  AuditAction = "created"
	AuditUpdated  AuditAction = "updated"
	AuditDeleted  AuditAction = "deleted"
	AuditRestored AuditAction = "restored"
)

// PurchaseAuditLog is an append-only record of one purchase mutation.
// Rows are never updated or deleted by application logic and survive
// soft deletion of the purchase they describe.
type PurchaseAuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"purchase_id"`
	UserID     *uuid.UUID     `gorm:"type:uuid" json:"user_id,omitempty"` // nil for system actions
	Action     AuditAction    `gorm:"type:varchar(20);not null" json:"action"`
	Changes    datatypes.JSON `gorm:"type:jsonb" json:"changes"`
	OldValues  datatypes.JSON `gorm:"type:jsonb" json:"old_values"`
	NewValues  datatypes.JSON `gorm:"type:jsonb" json:"new_values"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string         `gorm:"type:varchar(512)" json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate mirrors BaseModel's UUID generation; audit logs do not embed
// BaseModel because they carry no soft delete or update timestamps.
func (l *PurchaseAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
