package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/database"
	"github.com/welltechai/thinksync-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles user database operations
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := database.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := database.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// List retrieves all users, most recently created first
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := database.DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateStatus updates a user's account status
func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	res := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update user status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update user status: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// RecordFailedAttempt increments the failed-login counter under a row lock and
// sets the lock window once the threshold is reached. The row lock serializes
// concurrent attempts against the same account so lockouts are never
// under-counted.
func (r *UserRepository) RecordFailedAttempt(ctx context.Context, id uuid.UUID, threshold int, window time.Duration, now time.Time) (int, *time.Time, error) {
	var attempts int
	var lockedUntil *time.Time

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&user).Error; err != nil {
			return err
		}

		attempts = user.FailedAttempts + 1
		updates := map[string]interface{}{"failed_attempts": attempts}
		if attempts >= threshold {
			until := now.Add(window)
			lockedUntil = &until
			updates["locked_until"] = until
		}

		return tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to record failed attempt: %w", err)
	}
	return attempts, lockedUntil, nil
}

// RecordLogin resets the lockout state and stamps the last login time
func (r *UserRepository) RecordLogin(ctx context.Context, id uuid.UUID, now time.Time) error {
	updates := map[string]interface{}{
		"failed_attempts": 0,
		"locked_until":    nil,
		"last_login_at":   now,
	}
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// CountByStatus returns user counts grouped by account status
func (r *UserRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	type row struct {
		Status models.Status
		Count  int64
	}
	var rows []row
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// CountCreatedSince returns the number of users created at or after the given time
func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count new users: %w", err)
	}
	return count, nil
}
