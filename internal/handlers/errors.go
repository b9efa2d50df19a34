// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"propertycms/internal/store"
)

// apiError is an error with a client-facing message and status.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

// isMissingParent reports whether err is a foreign key violation, i.e.
// the referenced category does not exist.
func isMissingParent(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// respond maps err to a JSON error response. notFound is the message used
// for store.ErrNotFound. Unexpected errors are logged and reported as a
// generic database error.
func respond(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		writeError(w, apiErr.msg, apiErr.status)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, notFound, http.StatusNotFound)
	case isMissingParent(err):
		writeError(w, "Category not found", http.StatusBadRequest)
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, "Database error", http.StatusInternalServerError)
	}
}
