package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
)

// ErrSecretMissing indicates the token service was constructed without a signing secret.
var ErrSecretMissing = errors.New("token: signing secret is required")

// TokenService creates, parses, and extends HMAC-signed JWTs carrying the
// authenticated user name as subject.
type TokenService struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// NewTokenService constructs a TokenService signing with HS256.
func NewTokenService(secret, issuer string, tokenTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
	}, nil
}

// CreateToken issues a signed token for the user name.
func (s *TokenService) CreateToken(userName string) (string, error) {
	if userName == "" {
		return "", fmt.Errorf("token: user name is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userName,
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{s.issuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken returns the user name carried by a valid token. Any parse,
// signature, or expiry failure yields the empty string so callers treat
// bad tokens exactly like missing ones.
func (s *TokenService) ParseToken(token string) string {
	if token == "" {
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}

	return claims.Subject
}

// ExtendToken reissues a token with a fresh expiry, preserving the subject.
// Invalid input tokens yield the empty string.
func (s *TokenService) ExtendToken(token string) string {
	userName := s.ParseToken(token)
	if userName == "" {
		return ""
	}

	extended, err := s.CreateToken(userName)
	if err != nil {
		return ""
	}

	return extended
}

// TokenTTL reports the configured token lifetime.
func (s *TokenService) TokenTTL() time.Duration {
	return s.tokenTTL
}
