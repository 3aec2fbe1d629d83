package auth

import (
	"errors"
	"time"

	"forms-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, wrong algorithm, expiry. Callers must not
// distinguish between these cases in responses.
var ErrInvalidToken = errors.New("invalid token")

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.TokenTTL,
	}, nil
}

// TTL reports the validity window of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs an HS256 token carrying the identity snapshot.
// Tokens are independent; issuing a new one never invalidates others.
func (m *Manager) Issue(now time.Time, userID int64, email, role string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a token against the process secret.
// It is a pure function of (token, now): no storage is consulted, so
// a token for a deleted account still verifies until it expires.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	if m.issuer != "" {
		iss, err := claims.GetIssuer()
		if err != nil || iss != m.issuer {
			return Claims{}, ErrInvalidToken
		}
	}
	if claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	if claims.Role == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
