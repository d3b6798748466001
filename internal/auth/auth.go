// Package auth issues and verifies bearer tokens identifying the acting user.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the service
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// DefaultTokenTTL is used when a zero TTL is configured
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("auth secret is required")
	ErrInvalidToken  = errors.New("invalid token")
)

// Actor is the authenticated user behind a request
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// CheckPermission reports whether the actor holds exactly the required role
func CheckPermission(actor *Actor, requiredRole string) bool {
	if actor == nil {
		return false
	}
	return actor.Role == requiredRole
}

// Claims is the JWT payload; the subject carries the actor ID
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 tokens with a shared secret
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token codec. An empty secret is rejected.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the actor
func (t *Tokens) Issue(actor Actor) (string, error) {
	if actor.ID == "" {
		return "", fmt.Errorf("%w: actor id is empty", ErrInvalidToken)
	}
	now := t.now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns its actor
func (t *Tokens) Parse(raw string) (*Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Actor{ID: claims.Subject, Role: claims.Role}, nil
}
