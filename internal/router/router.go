// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// property catalog API. Routes are split into public reads and
// token-protected admin mutations, all under /api.
package router

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"propertycms/internal/handlers"
	"propertycms/internal/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Options configures the parts of the router that depend on deployment.
type Options struct {
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string
	// UploadDir, when set, is served under /uploads.
	UploadDir string
	// RateLimiter, when set, throttles every /api request per client IP.
	RateLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(verifier middleware.TokenVerifier, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(corsHandler(opts.AllowedOrigins))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Get("/health", healthHandler)
		r.Post("/login", auth.Login)

		// Public reads.
		r.Get("/categories", public.Categories)
		r.Get("/contact", public.Contact)
		r.Get("/companies", public.Companies)

		// Authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(verifier))

			r.Post("/logout", auth.Logout)

			r.Post("/categories", admin.CreateCategory)
			r.Put("/categories/{id}", admin.UpdateCategory)
			r.Delete("/categories/{id}", admin.DeleteCategory)

			r.Post("/properties", admin.CreateProperty)
			r.Put("/properties/{id}", admin.UpdateProperty)
			r.Delete("/properties/{id}", admin.DeleteProperty)

			r.Post("/images", admin.CreateImage)
			r.Put("/images/{id}", admin.UpdateImage)
			r.Delete("/images/{id}", admin.DeleteImage)

			r.Put("/contact", admin.UpdateContact)

			r.Post("/cache/clear", admin.CacheClear)
			r.Get("/cache/status", admin.CacheStatus)
		})
	})

	// Uploaded files, when stored on local disk.
	if opts.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(noListing{http.Dir(opts.UploadDir)}))
		r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=86400")
			fs.ServeHTTP(w, r)
		})
	}

	return r
}

// corsHandler allows the front-end to call the API with bearer tokens.
// Credentials stay off so the "*" default remains usable by browsers.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}).Handler
}

// ParseOrigins splits a comma-separated origin list.
func ParseOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	return origins
}

// healthHandler returns a JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   Version,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// noListing hides directory indexes of the upload folder.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
