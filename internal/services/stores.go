package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/models"
)

// UserStore is the user persistence surface consumed by the services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	RecordFailedAttempt(ctx context.Context, id uuid.UUID, threshold int, window time.Duration, now time.Time) (int, *time.Time, error)
	RecordLogin(ctx context.Context, id uuid.UUID, now time.Time) error
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// AuditStore is the audit trail persistence surface
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AuditEntry, error)
	CountActionsSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

// SessionStore is the therapy session persistence surface
type SessionStore interface {
	Create(ctx context.Context, session *models.TherapySession) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TherapySession, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
