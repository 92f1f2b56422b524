package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/statusdash/statusdash/internal/domain"
)

// Claims carries the username and role of a signed-in user. The
// username doubles as the subject.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and validates HS256 access tokens. It
// implements httputil.TokenValidator.
type JWTAuthenticator struct {
	secret   []byte
	duration time.Duration
}

// NewJWTAuthenticator creates a new authenticator.
func NewJWTAuthenticator(secret string, duration time.Duration) (*JWTAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret key is required")
	}
	if duration <= 0 {
		duration = 15 * time.Minute
	}
	return &JWTAuthenticator{secret: []byte(secret), duration: duration}, nil
}

// GenerateToken signs an access token for the user.
func (a *JWTAuthenticator) GenerateToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(a.duration)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

// ValidateToken parses and verifies an access token. Returns the
// username and role carried by the token.
func (a *JWTAuthenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
