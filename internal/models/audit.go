package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action tags
const (
	ActionUserRegistered = "user_registered"
	ActionLoginSuccess   = "login_success"
	ActionLoginFailed    = "login_failed"
	ActionUserApproved   = "user_approved"
	ActionUserRejected   = "user_rejected"
	ActionStatusChanged  = "status_changed"
	ActionUserLogout     = "user_logout"
	ActionAdminCreated   = "admin_created"
	ActionSessionCreated = "session_created"
)

// AuditEntry is an append-only record of a security-relevant event.
// Entries are never updated or deleted by the service.
type AuditEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil for anonymous events
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	IPAddress string     `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string     `gorm:"type:text" json:"user_agent"`
	CreatedAt time.Time  `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// BeforeCreate hook
func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Origin carries caller metadata attached to audit entries
type Origin struct {
	IPAddress string
	UserAgent string
}
