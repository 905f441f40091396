package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/internal/domain"
)

var testJWTSecret = []byte("test-jwt-secret-for-middleware")

func mintToken(t *testing.T, secret []byte, userID string, expiresIn time.Duration) string {
	t.Helper()

	claims := &UserClaims{
		UserID: userID,
		Type:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := domain.UserFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, "user_1"))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testJWTSecret, "user_1", time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), "Invalid authorization header format")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testJWTSecret, "user_1", -time.Minute))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, []byte("some-other-secret"), "user_1", time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRequireAuth_MissingUserID(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testJWTSecret, "", time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User ID not found in token")
}

func TestRequireAuth_SecretFetchFailure(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return nil, fmt.Errorf("settings table unavailable") })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testJWTSecret, "user_1", time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAuth_RejectsNonHMACAlgorithm(t *testing.T) {
	m := NewAuthMiddleware(func() ([]byte, error) { return testJWTSecret, nil })
	handler := m.RequireAuth()(protectedHandler(t, ""))

	// alg=none tokens must never pass
	claims := &UserClaims{UserID: "user_1"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
