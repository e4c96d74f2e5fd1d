// Package middleware provides HTTP middleware for API authentication.
package middleware

import (
	"net/http"
	"strings"
)

// TokenValidator validates a bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) error
}

// TokenValidatorFunc adapts a function to the TokenValidator interface.
type TokenValidatorFunc func(tokenString string) error

// ValidateToken calls f.
func (f TokenValidatorFunc) ValidateToken(tokenString string) error {
	return f(tokenString)
}

// RequireAuth creates middleware that rejects requests without a valid
// bearer token.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if err := validator.ValidateToken(token); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization header. The "Bearer"
// prefix is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
