// Package auth resolves the signed-in identity of a request.
//
// Sign-in itself belongs to the external identity provider. What reaches
// this server is a short session token (a JWT) whose subject is the
// provider's user id, the same id the webhook keys users by:
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header:    {"alg":"HS256","typ":"JWT"}
//	- Payload:   {"sub":"user_2abc...","iss":"devoverflow","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, SESSION_SECRET)
//
// The server verifies the signature with the shared secret; no database
// lookup is needed to know who is calling.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a session token issued by Generate.
const DefaultTTL = time.Hour

// MinSecretLength is the shortest accepted SESSION_SECRET.
const MinSecretLength = 16

// TokenService signs and verifies session tokens.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService. Tokens are only accepted when
// their "iss" claim equals issuer.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: session secret must be at least %d characters", MinSecretLength)
	}
	if issuer == "" {
		return nil, errors.New("auth: session issuer must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate issues a session token for the identity clerkID, valid for
// DefaultTTL.
func (s *TokenService) Generate(clerkID string) (string, error) {
	return s.GenerateWithDuration(clerkID, DefaultTTL)
}

// GenerateWithDuration issues a token with a custom lifetime. A negative d
// yields an already expired token, which tests use.
func (s *TokenService) GenerateWithDuration(clerkID string, d time.Duration) (string, error) {
	if clerkID == "" {
		return "", errors.New("auth: identity must not be empty")
	}
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clerkID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    s.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenStr and returns the identity in its subject.
//
// The signing method is pinned to HS256 so a token claiming "none" (or an
// asymmetric algorithm keyed with our secret) is rejected.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return c.Subject, nil
}

// ErrTokenExpired is returned by Validate for a well-signed token past its
// expiry.
var ErrTokenExpired = errors.New("auth: token expired")
