// Package jwt valida bearer tokens HS256 emitidos con el secreto compartido.
// El claim "sub" lleva el user id entero.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-weight-tracker/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrInvalidSub    = errors.New("token sub is not a user id")
)

type claims struct {
	Email string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	secret []byte
	parser *gojwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: gojwt.NewParser(
			gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
			gojwt.WithExpirationRequired(),
			gojwt.WithLeeway(30*time.Second),
		),
	}
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var c claims
	if _, err := v.parser.ParseWithClaims(token, &c, func(*gojwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	uid, err := strconv.ParseInt(strings.TrimSpace(c.Subject), 10, 64)
	if err != nil || uid <= 0 {
		return auth.Claims{}, ErrInvalidSub
	}

	return auth.Claims{UserID: uid, Email: c.Email}, nil
}

// Sign emite un token para userID válido por ttl. Lo usa el comando
// `users token` para pruebas locales.
func Sign(secret string, userID int64, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNotConfigured
	}
	now := time.Now()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return tok.SignedString([]byte(secret))
}
