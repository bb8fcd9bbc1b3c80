package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DevUserID is the identity requests run as when verification is disabled
// for local development.
var DevUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Claims are the registered claims the engine cares about. The subject is
// the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware validates bearer tokens on protected routes.
type Middleware struct {
	secret  []byte
	enabled bool
	logger  *zap.Logger
}

// NewMiddleware creates an auth middleware. With enabled=false every request
// is attributed to DevUserID; use only for local development.
func NewMiddleware(secret string, enabled bool, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret:  []byte(secret),
		enabled: enabled,
		logger:  logger.Named("auth"),
	}
}

// RequireAuth wraps a handler, rejecting requests without a valid bearer
// token and placing the caller's user ID into the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next(w, r.WithContext(WithUserID(r.Context(), DevUserID)))
			return
		}

		userID, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("Rejected request", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintf(w, `{"error":"unauthorized","message":%q}`, err.Error())
			return
		}

		next(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}

func (m *Middleware) authenticate(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return uuid.Nil, errors.New("missing Authorization header")
	}
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return uuid.Nil, errors.New("Authorization header is not a Bearer token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not a user ID: %w", err)
	}
	return userID, nil
}
