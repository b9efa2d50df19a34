// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"propertycms/internal/auth"
	"propertycms/internal/middleware"
	"propertycms/internal/models"
)

// Authenticator checks credentials and revokes tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *models.AdminUser, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

// Auth groups the login and logout handlers.
type Auth struct {
	auth Authenticator
}

// NewAuth creates a new Auth handler group.
func NewAuth(a Authenticator) *Auth {
	return &Auth{auth: a}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond(w, r, err, "")
		return
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		writeError(w, "Username and password required", http.StatusBadRequest)
		return
	}

	token, user, err := h.auth.Login(r.Context(), username, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Warn("failed login attempt", "username", username, "remote_addr", r.RemoteAddr)
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		respond(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Logout handles POST /api/logout. The presented token is revoked until
// it would have expired anyway.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		writeError(w, "Access token required", http.StatusUnauthorized)
		return
	}
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		slog.Error("token revocation failed", "user_id", claims.UserID, "error", err)
		writeError(w, "Logout failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}
