package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/security"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// UserSource resolves live account state for the active-status re-check
type UserSource interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Gate is the request authorization chain. Stages compose per route in
// declared order: Authenticate, then RequireActive, then RequireAdmin.
type Gate struct {
	tokens *security.TokenIssuer
	users  UserSource
}

// NewGate creates the authorization gate
func NewGate(tokens *security.TokenIssuer, users UserSource) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// GetClaims extracts the authenticated claims bound by Authenticate
func GetClaims(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.Claims)
	return claims, ok
}

// Authenticate validates the bearer token and binds its claims to the
// request context. Missing, malformed, and expired tokens are all 401.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			gateError(w, http.StatusUnauthorized, "no authorization token provided")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := g.tokens.Verify(token)
		if err != nil {
			// Expired vs malformed only matters for diagnostics
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Token rejected")
			gateError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActive re-fetches the account and rejects anything not active.
// This live re-check is what makes suspension bite immediately, even against
// tokens that have not yet expired.
func (g *Gate) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			gateError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := g.users.GetUser(r.Context(), claims.UserID)
		if err != nil || user.Status != models.StatusActive {
			gateError(w, http.StatusForbidden, "account not active")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose claims lack the admin role
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			gateError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if claims.Role != models.RoleAdmin {
			gateError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func gateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
