// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"propertycms/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// ClaimsKey is the context key for the verified token claims.
const ClaimsKey contextKey = "claims"

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a bearer token (401) or with an
// invalid, expired or revoked one (403). Verified claims are stored in
// the request context; see ClaimsFromCtx.
func RequireAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSONError(w, "Access token required", http.StatusUnauthorized)
				return
			}

			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				slog.Debug("token rejected", "path", r.URL.Path, "error", err)
				writeJSONError(w, "Invalid or expired token", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromCtx extracts the verified claims from the request context.
// Returns nil if the request did not pass RequireAuth.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// bearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
