package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-weight-tracker/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestVerifier_RoundTrip(t *testing.T) {
	tok, err := Sign("s3cret", 7, "ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c, err := NewVerifier("s3cret").Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.UserID != 7 || c.Email != "ana@example.com" {
		t.Fatalf("unexpected claims %+v", c)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	good, _ := Sign("s3cret", 7, "", time.Hour)
	expired, _ := Sign("s3cret", 7, "", -time.Hour)

	noSub, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "ana",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))

	noExp, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject: "7",
	}).SignedString([]byte("s3cret"))

	cases := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"empty", "s3cret", "  ", ErrTokenEmpty},
		{"not configured", "", good, ErrNotConfigured},
		{"wrong secret", "other", good, auth.ErrInvalidToken},
		{"expired", "s3cret", expired, auth.ErrInvalidToken},
		{"non numeric sub", "s3cret", noSub, ErrInvalidSub},
		{"missing exp", "s3cret", noExp, auth.ErrInvalidToken},
		{"garbage", "s3cret", "a.b.c", auth.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVerifier(tc.secret).Verify(context.Background(), tc.token)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
