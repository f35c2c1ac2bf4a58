package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mr1hm/disaster-relief/internal/models"
	"github.com/mr1hm/disaster-relief/internal/repository"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session carried by a bearer token. RegisteredClaims.ID is
// the token id that logout revokes.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and checks HS256 session tokens.
type Tokens struct {
	secret  []byte
	ttl     time.Duration
	revoked repository.TokenRepository
}

func NewTokens(secret string, ttl time.Duration, revoked repository.TokenRepository) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, revoked: revoked}
}

func (t *Tokens) Issue(u *models.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of raw and rejects revoked tokens.
func (t *Tokens) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	revoked, err := t.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking token revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Revoke invalidates the token until it would have expired anyway.
func (t *Tokens) Revoke(ctx context.Context, claims *Claims) error {
	expires := time.Now().Add(t.ttl)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return t.revoked.RevokeToken(ctx, claims.ID, expires)
}

// Purge forgets revocations of tokens that have since expired.
func (t *Tokens) Purge(ctx context.Context) (int64, error) {
	return t.revoked.PurgeExpiredTokens(ctx, time.Now())
}
