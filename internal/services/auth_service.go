package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/welltechai/thinksync-service/internal/cache"
	"github.com/welltechai/thinksync-service/internal/config"
	"github.com/welltechai/thinksync-service/internal/metrics"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/security"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	minPasswordLength      = 8
	minLicenseNumberLength = 3
	statsCacheTTL          = 30 * time.Second
	statsWindow            = 7 * 24 * time.Hour
)

// AuthService owns the account lifecycle: registration, authentication with
// lockout, admin status transitions, and the audit trail around them.
// One instance is constructed at startup and shared across requests.
type AuthService struct {
	users    UserStore
	audits   AuditStore
	sessions SessionStore
	tokens   *security.TokenIssuer
	cache    cache.Cache
	cfg      config.AuthConfig
	now      func() time.Time
}

// LoginResult carries the issued token and the public account view
type LoginResult struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

// NewAuthService creates the process-wide auth service
func NewAuthService(users UserStore, audits AuditStore, sessions SessionStore, tokens *security.TokenIssuer, c cache.Cache, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		audits:   audits,
		sessions: sessions,
		tokens:   tokens,
		cache:    c,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureAdmin creates the seed administrator account if it does not exist.
// The credentials come from configuration; they are never logged.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	_, err := s.users.GetByEmail(ctx, s.cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := security.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
		FullName:     "System Administrator",
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.audit(ctx, &admin.ID, models.ActionAdminCreated, "system administrator account created", models.Origin{})
	log.Info().Str("email", s.cfg.AdminEmail).Msg("Seed admin account created")
	return nil
}

// Register creates a new pending account
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, origin models.Origin) (*models.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Retained registration artifact; verification email delivery is not wired
	verification, err := security.RandomToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		FullName:          req.FullName,
		LicenseType:       req.LicenseType,
		LicenseNumber:     req.LicenseNumber,
		StateOfLicensure:  req.StateOfLicensure,
		Role:              models.RoleClinician,
		Status:            models.StatusPending,
		VerificationToken: verification,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.Registrations.Inc()
	s.audit(ctx, &user.ID, models.ActionUserRegistered, fmt.Sprintf("new user registered: %s", user.Email), origin)
	s.invalidateStats(ctx)
	return user, nil
}

// Authenticate verifies credentials, drives the lockout state machine, and
// issues a bearer token on success
func (s *AuthService) Authenticate(ctx context.Context, email, password string, origin models.Origin) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, Validationf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password, so callers cannot probe for accounts
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()

	// Lock state wins over everything, including a correct password.
	// The counter is not advanced while locked.
	if user.Locked(now) {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		s.audit(ctx, &user.ID, models.ActionLoginFailed, "login attempt while account locked", origin)
		return nil, ErrAccountLocked
	}

	if user.Status != models.StatusActive {
		metrics.LoginAttempts.WithLabelValues("not_active").Inc()
		return nil, fmt.Errorf("%w: %s", ErrAccountNotActive, user.Status)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		attempts, lockedUntil, recErr := s.users.RecordFailedAttempt(ctx, user.ID, s.cfg.LockoutThreshold, s.cfg.LockoutWindow, now)
		if recErr != nil {
			return nil, recErr
		}
		s.audit(ctx, &user.ID, models.ActionLoginFailed, fmt.Sprintf("failed login attempt #%d", attempts), origin)
		if lockedUntil != nil {
			// The attempt that crosses the threshold already reports the lock
			metrics.Lockouts.Inc()
			metrics.LoginAttempts.WithLabelValues("locked").Inc()
			log.Warn().Str("user_id", user.ID.String()).Time("locked_until", *lockedUntil).Msg("Account locked")
			return nil, ErrAccountLocked
		}
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.audit(ctx, &user.ID, models.ActionLoginSuccess, "user logged in successfully", origin)

	user.LastLoginAt = &now
	return &LoginResult{Token: token, User: user.View()}, nil
}

// Logout records the logout event. Tokens are stateless, so there is nothing
// to revoke server-side; outstanding tokens lapse at expiry.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, origin models.Origin) {
	s.audit(ctx, &userID, models.ActionUserLogout, "user logged out", origin)
}

// GetProfile returns the public view of an account
func (s *AuthService) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// ListUsers returns all accounts, newest first. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, actingID uuid.UUID) ([]models.UserView, error) {
	if err := s.requireAdmin(ctx, actingID); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// UpdateUserStatus transitions a target account's status. Admin only.
// No self-demotion guard: an admin may suspend their own account.
func (s *AuthService) UpdateUserStatus(ctx context.Context, actingID, targetID uuid.UUID, newStatus models.Status, origin models.Origin) error {
	if !models.ValidStatus(newStatus) {
		return ErrInvalidStatus
	}
	if err := s.requireAdmin(ctx, actingID); err != nil {
		return err
	}

	if err := s.users.UpdateStatus(ctx, targetID, newStatus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	action := models.ActionStatusChanged
	switch newStatus {
	case models.StatusActive:
		action = models.ActionUserApproved
	case models.StatusRejected:
		action = models.ActionUserRejected
	}
	s.audit(ctx, &actingID, action, fmt.Sprintf("changed user %s status to %s", targetID, newStatus), origin)
	s.invalidateStats(ctx)
	return nil
}

// GetUserAudit returns a target account's audit trail, newest first. Admin only.
func (s *AuthService) GetUserAudit(ctx context.Context, actingID, targetID uuid.UUID, limit, offset int) ([]models.AuditEntry, error) {
	if err := s.requireAdmin(ctx, actingID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.audits.GetByUserID(ctx, targetID, limit, offset)
}

// GetStats aggregates the admin dashboard statistics. Responses are cached
// briefly since every widget on the dashboard polls this endpoint.
func (s *AuthService) GetStats(ctx context.Context) (*models.Stats, error) {
	if raw, err := s.cache.Get(ctx, cache.StatsKey); err == nil {
		var cached models.Stats
		if json.Unmarshal(raw, &cached) == nil {
			return &cached, nil
		}
	}

	since := s.now().Add(-statsWindow)

	byStatus, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	newUsers, err := s.users.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	totalSessions, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, err
	}
	weekSessions, err := s.sessions.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	auditCounts, err := s.audits.CountActionsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{}
	stats.Users.ByStatus = byStatus
	for _, n := range byStatus {
		stats.Users.Total += n
	}
	stats.Users.NewThisWeek = newUsers
	stats.Sessions.Total = totalSessions
	stats.Sessions.ThisWeek = weekSessions
	stats.AuditActionsThisWeek = auditCounts

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, cache.StatsKey, raw, statsCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache admin stats")
		}
	}
	return stats, nil
}

// GetUser fetches the live account row; used by the authorization gate for
// the active-status re-check
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) requireAdmin(ctx context.Context, actingID uuid.UUID) error {
	acting, err := s.users.GetByID(ctx, actingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if acting.Role != models.RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

// audit appends an entry best-effort; a failed write is logged but never
// fails the triggering operation
func (s *AuthService) audit(ctx context.Context, userID *uuid.UUID, action, details string, origin models.Origin) {
	entry := &models.AuditEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: origin.IPAddress,
		UserAgent: origin.UserAgent,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}

func (s *AuthService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.StatsKey); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate stats cache")
	}
}

func validateRegistration(req models.RegisterRequest) error {
	required := []struct {
		name  string
		value string
	}{
		{"email", req.Email},
		{"password", req.Password},
		{"full_name", req.FullName},
		{"license_type", req.LicenseType},
		{"license_number", req.LicenseNumber},
		{"state_of_licensure", req.StateOfLicensure},
	}
	for _, f := range required {
		if f.value == "" {
			return Validationf("missing required field: %s", f.name)
		}
	}

	if !emailPattern.MatchString(req.Email) {
		return Validationf("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return Validationf("password must be at least %d characters long", minPasswordLength)
	}
	if len(req.LicenseNumber) < minLicenseNumberLength {
		return Validationf("valid license number is required")
	}
	return nil
}
