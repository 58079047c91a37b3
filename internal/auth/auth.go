// Package auth resolves an optional caller identity from a bearer token.
// The rest of the application treats the identity as an opaque string; a
// request with no token, or a token that fails verification, simply
// proceeds anonymously. Endpoints that need an identity decide for
// themselves whether anonymous is acceptable.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const callerContextKey contextKey = "caller_id"

// Verifier validates bearer tokens and extracts the caller identity from
// the subject claim.
type Verifier struct {
	secret []byte
	logger *slog.Logger
}

// NewVerifier returns a Verifier using the given HMAC signing secret.
func NewVerifier(secret string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		secret: []byte(secret),
		logger: logger,
	}
}

// VerifyToken checks the token signature and returns the subject claim.
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// Resolve is middleware that attaches the verified caller identity to the
// request context. It never rejects: a missing or invalid token leaves the
// request anonymous.
func (v *Verifier) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		callerID, err := v.VerifyToken(tokenString)
		if err != nil {
			v.logger.DebugContext(r.Context(), "bearer token rejected",
				"error", err.Error(),
			)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), callerID)))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CallerID returns the verified caller identity, if any.
func CallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerContextKey).(string)
	return id, ok && id != ""
}

// WithCallerID attaches a caller identity to the context. Exposed for
// tests and for transports that resolve identity elsewhere.
func WithCallerID(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerContextKey, callerID)
}
