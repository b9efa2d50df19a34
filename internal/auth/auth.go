// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth authenticates catalog administrators. Passwords are
// checked with bcrypt, sessions are stateless HS256 JWTs, and logout adds
// the token's ID to a revocation list until it would have expired.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"propertycms/internal/models"
)

const issuer = "propertycms"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims are the JWT claims carried by an admin token.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserFinder looks up admin accounts.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

// Revocations records logged-out token IDs.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator issues and verifies admin tokens.
type Authenticator struct {
	users   UserFinder
	revoked Revocations
	secret  []byte
	ttl     time.Duration
	now     func() time.Time

	// dummyHash keeps the response time of unknown usernames in line
	// with wrong passwords.
	dummyHash []byte
}

// New creates an Authenticator.
func New(users UserFinder, revoked Revocations, secret string, ttl time.Duration) *Authenticator {
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	return &Authenticator{
		users:     users,
		revoked:   revoked,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
		dummyHash: dummy,
	}
}

// Login checks the credentials and returns a signed token for the user.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, *models.AdminUser, error) {
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.Issue(user)
	if err != nil {
		return "", nil, err
	}
	slog.Info("admin logged in", "username", user.Username)
	return token, user, nil
}

// Issue signs a token for user valid for the configured TTL.
func (a *Authenticator) Issue(user *models.AdminUser) (string, error) {
	now := a.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Any failure, including a revoked
// token, yields an error wrapping ErrInvalidToken.
func (a *Authenticator) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if a.revoked != nil && claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed.
			slog.Error("revocation lookup failed", "error", err)
			return nil, fmt.Errorf("%w: revocation lookup failed", ErrInvalidToken)
		}
		if revoked {
			return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}
	return claims, nil
}

// Logout revokes the token described by claims for its remaining lifetime.
func (a *Authenticator) Logout(ctx context.Context, claims *Claims) error {
	if a.revoked == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(a.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := a.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	slog.Info("admin logged out", "username", claims.Username)
	return nil
}
