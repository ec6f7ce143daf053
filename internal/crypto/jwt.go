package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "medbook"
	tokenAudience = "medbook-api"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Tokens issues and verifies signed session tokens. The secret and lifetime
// are fixed at construction and never change afterwards.
type Tokens struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens using the wall clock.
func NewTokens(secret string, expiry time.Duration) *Tokens {
	return NewTokensWithClock(secret, expiry, time.Now)
}

// NewTokensWithClock creates a Tokens that reads time from now for both
// issuance and expiry checks.
func NewTokensWithClock(secret string, expiry time.Duration, now func() time.Time) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		expiry: expiry,
		now:    now,
	}
}

// Expiry returns the configured token lifetime.
func (t *Tokens) Expiry() time.Duration {
	return t.expiry
}

// Issue creates a signed JWT whose subject is userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses tokenString and returns the user id it was issued for.
// Every failure, expired or tampered, is reported as ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
