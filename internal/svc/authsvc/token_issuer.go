package authsvc

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a TokenIssuer for the given secret and validity window.
func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
	}
}

// Issue signs a token carrying the user's id, username and email.
func (t *TokenIssuer) Issue(user *domain.User) (string, domain.Session, error) {
	if len(t.secret) == 0 {
		return "", domain.Session{}, domain.ErrNoSigningSecret
	}

	now := t.now()
	claims := sessionClaims{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		//nolint:exhaustruct
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims.session(), nil
}

// Validate verifies the token's signature and expiry and returns its claims.
// Every failure matches domain.ErrInvalidAuthToken.
func (t *TokenIssuer) Validate(token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrNoAuthToken
	}

	if len(t.secret) == 0 {
		return domain.Session{}, errors.Join(domain.ErrInvalidAuthToken, domain.ErrNoSigningSecret)
	}

	var claims sessionClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.Session{}, errors.Join(domain.ErrInvalidAuthToken, err)
	}

	return claims.session(), nil
}

func (c sessionClaims) session() domain.Session {
	var session domain.Session

	session.ID = c.ID
	session.Username = c.Username
	session.Email = c.Email

	if c.IssuedAt != nil {
		session.IssuedAt = c.IssuedAt.Unix()
	}

	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Unix()
	}

	return session
}
