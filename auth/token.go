// Package auth issues and verifies admin bearer tokens and checks admin passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidToken indicates the token is malformed, badly signed or missing required claims
	ErrInvalidToken = errors.New("invalid access token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("access token has expired")
)

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// TokenService signs and verifies HS256 tokens. Subject is the user id, email is a custom claim.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	timeFunc func() time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewTokenService builds a TokenService from the configured secret and lifetime.
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}
	return &TokenService{secret: []byte(secret), lifetime: lifetime, timeFunc: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.timeFunc = now
	return &clone
}

// Sign issues a token for id that expires after the configured lifetime.
func (s *TokenService) Sign(id Identity) (string, error) {
	now := s.timeFunc()
	claims := tokenClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and the presence of a string subject and email claim.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		log.Debug().Err(err).Msg("access token validation failed")
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Email == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
