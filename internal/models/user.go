package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a user's access role
type Role string

const (
	RoleClinician Role = "clinician"
	RoleAdmin     Role = "admin"
)

// Status is a user's account approval status
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusRejected  Status = "rejected"
	StatusInactive  Status = "inactive"
)

// ValidStatus reports whether s is a known account status
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusRejected, StatusInactive:
		return true
	}
	return false
}

// User represents a registered clinician or administrator
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash     string    `gorm:"type:text;not null" json:"-"`
	FullName         string    `gorm:"type:varchar(255);not null" json:"full_name"`
	LicenseType      string    `gorm:"type:varchar(100)" json:"license_type"`
	LicenseNumber    string    `gorm:"type:varchar(100)" json:"license_number"`
	StateOfLicensure string    `gorm:"type:varchar(100)" json:"state_of_licensure"`
	Role             Role      `gorm:"type:varchar(20);not null;default:'clinician'" json:"role"`
	Status           Status    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Registration artifact; email delivery is not wired
	VerificationToken string `gorm:"type:varchar(64)" json:"-"`

	// Lockout state, mutated only under row lock
	FailedAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`

	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Locked reports whether the account is locked at the given instant.
// Expiry is evaluated lazily; there is no background unlock task.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// UserView is the public projection of a user, without credential material
type UserView struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	LicenseType      string     `json:"license_type"`
	LicenseNumber    string     `json:"license_number"`
	StateOfLicensure string     `json:"state_of_licensure"`
	Role             Role       `json:"role"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

// View returns the public projection of the user
func (u *User) View() UserView {
	return UserView{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		LicenseType:      u.LicenseType,
		LicenseNumber:    u.LicenseNumber,
		StateOfLicensure: u.StateOfLicensure,
		Role:             u.Role,
		Status:           u.Status,
		CreatedAt:        u.CreatedAt,
		LastLoginAt:      u.LastLoginAt,
	}
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"full_name"`
	LicenseType      string `json:"license_type"`
	LicenseNumber    string `json:"license_number"`
	StateOfLicensure string `json:"state_of_licensure"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StatusUpdateRequest is the admin status transition payload
type StatusUpdateRequest struct {
	Status Status `json:"status"`
}
