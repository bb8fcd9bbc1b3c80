package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protected(m *Middleware) (http.HandlerFunc, *uuid.UUID) {
	var seen uuid.UUID
	h := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFrom(r.Context())
		seen = id
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewMiddleware(testSecret, true, zap.NewNop())
	userID := uuid.New()
	h, seen := protected(m)

	r := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seen)
}

func TestRequireAuth_Rejections(t *testing.T) {
	m := NewMiddleware(testSecret, true, zap.NewNop())
	h, _ := protected(m)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", uuid.NewString(), time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, testSecret, uuid.NewString(), time.Now().Add(-time.Hour))},
		{"subject not a uuid", "Bearer " + signToken(t, testSecret, "alice", time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAuth_VerificationDisabled(t *testing.T) {
	m := NewMiddleware("", false, zap.NewNop())
	h, seen := protected(m)

	r := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	w := httptest.NewRecorder()
	h(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DevUserID, *seen)
}
