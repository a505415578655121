package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TherapySession is a submitted session record with its generated summary
type TherapySession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientName      string    `gorm:"type:varchar(255);not null" json:"client_name"`
	TherapyType     string    `gorm:"type:varchar(100);not null" json:"therapy_type"`
	SummaryFormat   string    `gorm:"type:varchar(50);not null" json:"summary_format"`
	Analysis        string    `gorm:"type:text" json:"analysis"`
	SentimentJSON   string    `gorm:"type:text" json:"-"`
	Validation      string    `gorm:"type:text" json:"validation_analysis"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (TherapySession) TableName() string {
	return "therapy_sessions"
}

// BeforeCreate hook
func (s *TherapySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SessionRequest is the session submission payload
type SessionRequest struct {
	ClientName    string `json:"client_name"`
	TherapyType   string `json:"therapy_type"`
	SummaryFormat string `json:"summary_format"`
}

// Stats is the admin dashboard statistics payload
type Stats struct {
	Users struct {
		Total       int64            `json:"total"`
		ByStatus    map[Status]int64 `json:"by_status"`
		NewThisWeek int64            `json:"new_this_week"`
	} `json:"users"`
	Sessions struct {
		Total    int64 `json:"total"`
		ThisWeek int64 `json:"this_week"`
	} `json:"sessions"`
	AuditActionsThisWeek map[string]int64 `json:"audit_actions_this_week"`
}
