package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carepulse/intake-platform/pkg/logging"
)

var (
	// ErrInvalidPasskey is returned when the presented passkey does not match
	ErrInvalidPasskey = errors.New("admin: invalid passkey")

	// ErrSessionExpired is returned when the session token is invalid, expired or revoked
	ErrSessionExpired = errors.New("admin: session expired")
)

// Gate controls access to the admin surface. A correct passkey buys a
// session: a uuid stored server-side with a TTL, handed to the client inside
// a signed JWT. The passkey is an access gate for clinic staff, not a
// per-user authentication system.
type Gate struct {
	passkey    string
	jwtSecret  []byte
	sessionTTL time.Duration
	sessions   SessionStore
	logger     *logging.Logger
}

// NewGate creates an admin gate.
func NewGate(passkey, jwtSecret string, sessionTTL time.Duration, sessions SessionStore, logger *logging.Logger) (*Gate, error) {
	if passkey == "" {
		return nil, errors.New("admin: passkey is required")
	}
	if jwtSecret == "" {
		return nil, errors.New("admin: jwt secret is required")
	}
	if sessions == nil {
		return nil, errors.New("admin: session store is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{
		passkey:    passkey,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Verify checks the passkey and, on match, opens a session and returns its
// token. The comparison is constant-time.
func (g *Gate) Verify(ctx context.Context, passkey string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(passkey), []byte(g.passkey)) != 1 {
		g.logger.Warn("admin passkey rejected")
		return "", ErrInvalidPasskey
	}

	sessionID := uuid.New().String()
	if err := g.sessions.Put(ctx, sessionID, g.sessionTTL); err != nil {
		return "", fmt.Errorf("admin: failed to open session: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.sessionTTL)),
	})
	signed, err := token.SignedString(g.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("admin: failed to sign session token: %w", err)
	}

	g.logger.Info("admin session opened", "session_id", sessionID)
	return signed, nil
}

// Check validates a session token: signature, expiry, and a live server-side
// session. Returns the session id.
func (g *Gate) Check(ctx context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.jwtSecret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrSessionExpired
	}

	live, err := g.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("admin: failed to check session: %w", err)
	}
	if !live {
		return "", ErrSessionExpired
	}
	return claims.ID, nil
}

// Revoke closes the session behind a valid token. An already-dead session is
// not an error.
func (g *Gate) Revoke(ctx context.Context, token string) error {
	sessionID, err := g.Check(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil
		}
		return err
	}
	if err := g.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	g.logger.Info("admin session revoked", "session_id", sessionID)
	return nil
}
