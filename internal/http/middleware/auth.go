package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hookforge/hookforge/internal/domain"
)

// UserClaims are the JWT claims carried by an admin API token
type UserClaims struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens on the admin API. The signing secret
// is fetched per request so a rotated secret takes effect without a restart.
type AuthMiddleware struct {
	getJWTSecret func() ([]byte, error)
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(getJWTSecret func() ([]byte, error)) *AuthMiddleware {
	return &AuthMiddleware{
		getJWTSecret: getJWTSecret,
	}
}

// RequireAuth returns a middleware that verifies the HS256 bearer token and
// puts the authenticated user id on the request context
func (m *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "Authorization header is required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, "Invalid authorization header format")
				return
			}

			secret, err := m.getJWTSecret()
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			claims := &UserClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, "Invalid or expired token")
				return
			}
			if claims.UserID == "" {
				writeAuthError(w, "User ID not found in token")
				return
			}

			ctx := domain.WithUser(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success": false, "error": %q}`+"\n", message)
}
