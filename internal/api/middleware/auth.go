// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/redact"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// invalidCredentialsMessage is the one message every authentication failure
// produces. Distinguishing missing/expired/forged tokens in the response
// would leak token-validity internals.
const invalidCredentialsMessage = "Invalid credentials"

// AuthMiddleware provides JWT bearer-token authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// The user store is only consulted by AuthenticateWithUser.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates JWT tokens from the Authorization header and adds
// the user ID to the request context. It never touches the user store, which
// makes it the cheap choice for routes that only need the ID for filtering.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verifyRequest(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateWithUser validates the token and additionally resolves its
// subject against the user store, rejecting tokens for users that do not
// exist. The loaded user record is added to the request context alongside
// the ID.
func (m *AuthMiddleware) AuthenticateWithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.verifyRequest(w, r)
		if !ok {
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				// Same generic 401 as a forged token; the subject's
				// existence is not the client's to probe.
				shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
				return
			}
			slog.Error("failed to load user for token subject",
				"error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, shared.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyRequest extracts and validates the bearer token. On failure it
// writes the generic 401 response and returns ok=false.
func (m *AuthMiddleware) verifyRequest(
	w http.ResponseWriter,
	r *http.Request,
) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return nil, false
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
	if err != nil {
		switch err {
		case auth.ErrExpiredToken, auth.ErrInvalidToken, auth.ErrTokenNotYetValid:
			shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		default:
			slog.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return nil, false
	}

	return claims, true
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}

// GetUser extracts the loaded user record from the request context.
// Only set on routes behind AuthenticateWithUser.
func GetUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok
}
