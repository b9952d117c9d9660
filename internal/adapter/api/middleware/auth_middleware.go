package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/logger"
	"ratpatrol/pkg/response"
)

const (
	// UserIDKey is the echo context key holding the caller's user id.
	UserIDKey = "uid"
	// UserIDHeader names the caller directly. Honored only when enabled.
	UserIDHeader = "X-User-ID"
)

// TokenVerifier resolves a bearer ID token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier        TokenVerifier
	defaultUserID   string
	trustUserHeader bool
	logger          logger.Logger
}

// NewAuthMiddleware builds the identity middleware. verifier may be nil, in
// which case bearer tokens are ignored. trustUserHeader enables X-User-ID
// and should only be set in development.
func NewAuthMiddleware(verifier TokenVerifier, defaultUserID string, trustUserHeader bool, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:        verifier,
		defaultUserID:   defaultUserID,
		trustUserHeader: trustUserHeader,
		logger:          log.With("component", "auth_middleware"),
	}
}

// Identify sets the caller's user id. Resolution order is a verified bearer
// token, then X-User-ID when trusted, then the default device user. An
// invalid token is rejected rather than downgraded.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := m.defaultUserID

		if token, ok := bearerToken(c.Request().Header.Get("Authorization")); ok && m.verifier != nil {
			uid, err := m.verifier.VerifyToken(c.Request().Context(), token)
			if err != nil {
				m.logger.Debug("Rejected ID token", "error", err)
				return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
			}
			userID = uid
		} else if m.trustUserHeader {
			if header := strings.TrimSpace(c.Request().Header.Get(UserIDHeader)); header != "" {
				userID = header
			}
		}

		c.Set(UserIDKey, userID)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserID returns the id set by Identify.
func UserID(c echo.Context) string {
	uid, _ := c.Get(UserIDKey).(string)
	return uid
}
