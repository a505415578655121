package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/database"
	"github.com/welltechai/thinksync-service/internal/models"
)

// AuditRepository handles audit trail database operations.
// Entries are append-only; there are no update or delete paths.
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create appends a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if err := database.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// GetByUserID retrieves audit entries for a user, newest first
func (r *AuditRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	query := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	return entries, nil
}

// CountActionsSince returns entry counts per action tag at or after the given time
func (r *AuditRepository) CountActionsSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	type row struct {
		Action string
		Count  int64
	}
	var rows []row
	if err := database.DB.WithContext(ctx).
		Model(&models.AuditEntry{}).
		Select("action, count(*) as count").
		Where("created_at >= ?", since).
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit actions: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Action] = r.Count
	}
	return counts, nil
}
