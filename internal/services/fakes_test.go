package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/cache"
	"github.com/welltechai/thinksync-service/internal/config"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/security"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return fmt.Errorf("failed to create user: duplicate email")
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", gorm.ErrRecordNotFound)
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("failed to get user by email: %w", gorm.ErrRecordNotFound)
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (f *fakeUserStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("failed to update user status: %w", gorm.ErrRecordNotFound)
	}
	user.Status = status
	return nil
}

func (f *fakeUserStore) RecordFailedAttempt(ctx context.Context, id uuid.UUID, threshold int, window time.Duration, now time.Time) (int, *time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return 0, nil, fmt.Errorf("failed to record failed attempt: %w", gorm.ErrRecordNotFound)
	}
	user.FailedAttempts++
	if user.FailedAttempts >= threshold {
		until := now.Add(window)
		user.LockedUntil = &until
		return user.FailedAttempts, &until, nil
	}
	return user.FailedAttempts, nil, nil
}

func (f *fakeUserStore) RecordLogin(ctx context.Context, id uuid.UUID, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("failed to record login: %w", gorm.ErrRecordNotFound)
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	return nil
}

func (f *fakeUserStore) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[models.Status]int64)
	for _, user := range f.users {
		counts[user.Status]++
	}
	return counts, nil
}

func (f *fakeUserStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, user := range f.users {
		if !user.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (f *fakeAuditStore) Create(ctx context.Context, entry *models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditStore) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuditEntry
	for _, entry := range f.entries {
		if entry.UserID != nil && *entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAuditStore) CountActionsSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, entry := range f.entries {
		if !entry.CreatedAt.Before(since) {
			counts[entry.Action]++
		}
	}
	return counts, nil
}

func (f *fakeAuditStore) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions []models.TherapySession
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.TherapySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	f.sessions = append(f.sessions, *session)
	return nil
}

func (f *fakeSessionStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TherapySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TherapySession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeSessionStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sessions)), nil
}

func (f *fakeSessionStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.sessions {
		if !s.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fixture struct {
	service  *AuthService
	notes    *NotesService
	users    *fakeUserStore
	audits   *fakeAuditStore
	sessions *fakeSessionStore
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:    newFakeUserStore(),
		audits:   &fakeAuditStore{},
		sessions: &fakeSessionStore{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	cfg := config.AuthConfig{
		JWTSecret:        "unit-test-secret",
		TokenTTL:         24 * time.Hour,
		LockoutThreshold: 5,
		LockoutWindow:    30 * time.Minute,
		AdminEmail:       "admin@thinksync.com",
		AdminPassword:    "seed-admin-password",
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	f.service = NewAuthService(f.users, f.audits, f.sessions, tokens, cache.NewMemoryCache(), cfg)
	f.service.now = func() time.Time { return f.clock }
	f.notes = NewNotesService(f.sessions, f.audits)
	f.notes.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Email:            "nurse@example.com",
		Password:         "longenough1",
		FullName:         "J Doe",
		LicenseType:      "LPC",
		LicenseNumber:    "123",
		StateOfLicensure: "CA",
	}
}
