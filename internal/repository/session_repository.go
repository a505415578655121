package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/database"
	"github.com/welltechai/thinksync-service/internal/models"
)

// SessionRepository handles therapy session database operations
type SessionRepository struct{}

// NewSessionRepository creates a new session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Create creates a new therapy session record
func (r *SessionRepository) Create(ctx context.Context, session *models.TherapySession) error {
	if err := database.DB.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create therapy session: %w", err)
	}
	return nil
}

// ListByUserID retrieves a user's therapy sessions, newest first
func (r *SessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TherapySession, error) {
	var sessions []models.TherapySession
	if err := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list therapy sessions: %w", err)
	}
	return sessions, nil
}

// Count returns the total number of therapy sessions
func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.TherapySession{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count therapy sessions: %w", err)
	}
	return count, nil
}

// CountCreatedSince returns the number of sessions created at or after the given time
func (r *SessionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.TherapySession{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count new therapy sessions: %w", err)
	}
	return count, nil
}
