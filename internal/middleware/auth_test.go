package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/security"
	"gorm.io/gorm"
)

type staticUserSource struct {
	users map[uuid.UUID]*models.User
}

func (s *staticUserSource) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", gorm.ErrRecordNotFound)
	}
	return user, nil
}

func okHandler(t *testing.T, wantClaims bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantClaims {
			if _, ok := GetClaims(r.Context()); !ok {
				t.Error("claims missing from request context")
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}

func gateFixture(status models.Status, role models.Role) (*Gate, *security.TokenIssuer, *models.User) {
	tokens := security.NewTokenIssuer("gate-test-secret", time.Hour)
	user := &models.User{
		ID:     uuid.New(),
		Email:  "user@example.com",
		Role:   role,
		Status: status,
	}
	source := &staticUserSource{users: map[uuid.UUID]*models.User{user.ID: user}}
	return NewGate(tokens, source), tokens, user
}

func doRequest(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	gate, _, _ := gateFixture(models.StatusActive, models.RoleClinician)
	handler := gate.Authenticate(okHandler(t, true))

	rec := doRequest(handler, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	gate, _, _ := gateFixture(models.StatusActive, models.RoleClinician)
	handler := gate.Authenticate(okHandler(t, true))

	rec := doRequest(handler, "not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	gate, _, user := gateFixture(models.StatusActive, models.RoleClinician)
	expired := security.NewTokenIssuer("gate-test-secret", -time.Hour)
	token, err := expired.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(gate.Authenticate(okHandler(t, true)), token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	gate, _, user := gateFixture(models.StatusActive, models.RoleClinician)
	foreign := security.NewTokenIssuer("some-other-secret", time.Hour)
	token, err := foreign.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(gate.Authenticate(okHandler(t, true)), token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	gate, tokens, user := gateFixture(models.StatusActive, models.RoleClinician)
	token, err := tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(gate.Authenticate(okHandler(t, true)), token)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireActiveBlocksSuspendedDespiteValidToken(t *testing.T) {
	gate, tokens, user := gateFixture(models.StatusActive, models.RoleClinician)
	token, err := tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	handler := gate.Authenticate(gate.RequireActive(okHandler(t, true)))

	if rec := doRequest(handler, token); rec.Code != http.StatusOK {
		t.Fatalf("active account: status = %d, want 200", rec.Code)
	}

	// Suspension bites on the next request even though the token is unexpired
	user.Status = models.StatusSuspended
	if rec := doRequest(handler, token); rec.Code != http.StatusForbidden {
		t.Errorf("suspended account: status = %d, want 403", rec.Code)
	}
}

func TestRequireActiveBlocksDeletedAccount(t *testing.T) {
	gate, tokens, _ := gateFixture(models.StatusActive, models.RoleClinician)
	ghost, err := tokens.Issue(uuid.New(), "ghost@example.com", models.RoleClinician)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := doRequest(gate.Authenticate(gate.RequireActive(okHandler(t, true))), ghost)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireActiveWithoutAuthenticate(t *testing.T) {
	gate, _, _ := gateFixture(models.StatusActive, models.RoleClinician)

	rec := doRequest(gate.RequireActive(okHandler(t, false)), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	gate, tokens, user := gateFixture(models.StatusActive, models.RoleClinician)
	clinicianToken, err := tokens.Issue(user.ID, user.Email, models.RoleClinician)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	adminToken, err := tokens.Issue(user.ID, user.Email, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	handler := gate.Authenticate(gate.RequireActive(gate.RequireAdmin(okHandler(t, true))))

	if rec := doRequest(handler, clinicianToken); rec.Code != http.StatusForbidden {
		t.Errorf("clinician: status = %d, want 403", rec.Code)
	}
	if rec := doRequest(handler, adminToken); rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
}
