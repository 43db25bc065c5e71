package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"pet-weight-tracker/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// DefaultUserHeader es el header que inyecta el proxy/middleware de login upstream.
const DefaultUserHeader = "X-User-ID"

// AuthContext:
//   - Si verifier == nil => modo header confiable: userHeader trae el user id entero.
//   - Si verifier != nil => solo se acepta Authorization: Bearer <token>; el header se ignora.
//   - Sin identidad el request sigue igual; los handlers responden 401.
func AuthContext(verifier auth.AuthVerifier, userHeader string) func(http.Handler) http.Handler {
	if strings.TrimSpace(userHeader) == "" {
		userHeader = DefaultUserHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				raw := strings.TrimSpace(r.Header.Get(userHeader))
				if raw == "" {
					next.ServeHTTP(w, r)
					return
				}
				uid, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || uid <= 0 {
					next.ServeHTTP(w, r)
					return
				}
				ctx := WithClaims(r.Context(), auth.Claims{UserID: uid})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil || claims.UserID <= 0 {
				// No cortamos acá; el handler decide 401.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims guarda la identidad y la deja visible para Logging.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	noteIdentity(ctx, c.UserID)
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// OwnerID devuelve el user id autenticado, si hay.
func OwnerID(ctx context.Context) (int64, bool) {
	c, ok := GetClaims(ctx)
	if !ok || c.UserID <= 0 {
		return 0, false
	}
	return c.UserID, true
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
