package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken lo devuelven los verifiers ante firma, expiración o
// claims inválidos. El middleware lo trata como request sin identidad.
var ErrInvalidToken = errors.New("invalid bearer token")

// AuthVerifier resuelve un bearer token a la identidad del usuario dueño.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
