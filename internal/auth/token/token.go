// Package token issues and validates the HS256 bearer tokens that carry a
// session.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fairgate/pkg/domain"
)

var (
	ErrExpired = errors.New("token has expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims are the session claims carried by every token.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a shared secret.
type Service struct {
	signingKey []byte
	issuer     string
	clock      func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func New(signingKey, issuer string, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("signing key is required")
	}
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	s := &Service{signingKey: []byte(signingKey), issuer: issuer, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a token for a new session and returns it with its claims.
func (s *Service) Issue(userID domain.UserID, sessionID domain.SessionID, role domain.Role, ttl time.Duration) (string, *Claims, error) {
	if !role.IsValid() {
		return "", nil, fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		return "", nil, fmt.Errorf("ttl must be positive")
	}
	now := s.clock()
	claims := &Claims{
		UserID:    userID.String(),
		SessionID: sessionID.String(),
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate verifies signature, issuer and expiry. Failures wrap ErrExpired
// or ErrInvalid.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
