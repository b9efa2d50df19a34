// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload receives media files from multipart requests, enforces
// the type and size policy, and writes them to a storage backend under a
// per-category folder.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"propertycms/internal/storage"
)

// FieldName is the multipart field carrying the file.
const FieldName = "image"

// formOverhead is the room left for non-file form fields.
const formOverhead = 64 << 10

var (
	ErrNoFile       = errors.New("no file uploaded")
	ErrFileType     = errors.New("only image and video files are allowed")
	ErrFileTooLarge = errors.New("file too large")
)

// Stored describes a file written to the backend.
type Stored struct {
	Filename     string // storage key, e.g. "category_3/<uuid>.jpg"
	OriginalName string
	Size         int64
	MimeType     string
}

// Uploader applies the upload policy and stores accepted files.
type Uploader struct {
	backend storage.Backend
	maxSize int64
	allowed map[string]bool
}

// New creates an Uploader. allowedExt lists accepted extensions without
// the leading dot, e.g. "jpg".
func New(backend storage.Backend, maxSize int64, allowedExt []string) *Uploader {
	allowed := make(map[string]bool, len(allowedExt))
	for _, ext := range allowedExt {
		allowed["."+strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Uploader{backend: backend, maxSize: maxSize, allowed: allowed}
}

// ParseForm reads a multipart (or urlencoded) request body, capping its
// size. Callers should defer CleanupForm.
func (u *Uploader) ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxSize+formOverhead)
	err := r.ParseMultipartForm(u.maxSize)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || (err != nil && r.ContentLength > u.maxSize+formOverhead) {
		return ErrFileTooLarge
	}
	if err != nil {
		return fmt.Errorf("parse upload form: %w", err)
	}
	return nil
}

// CleanupForm removes the temporary files of a parsed multipart form.
func CleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// HasFile reports whether the parsed request carries a file part.
func HasFile(r *http.Request) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[FieldName]) > 0
}

// Receive validates the uploaded file of a parsed request and stores it
// in the folder of categoryID.
func (u *Uploader) Receive(r *http.Request, categoryID int64) (*Stored, error) {
	file, header, err := r.FormFile(FieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ErrNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	if header.Size > u.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !u.allowed[ext] {
		return nil, ErrFileType
	}

	// Sniff the first 512 bytes, then seek back.
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	mimeType := detectType(sniff[:n], ext)
	if !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "video/") {
		return nil, ErrFileType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	key := fmt.Sprintf("category_%d/%s%s", categoryID, uuid.New().String(), ext)
	if err := u.backend.Save(r.Context(), key, mimeType, file, header.Size); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	slog.Info("file stored", "key", key, "size", header.Size, "mime_type", mimeType)
	return &Stored{
		Filename:     key,
		OriginalName: header.Filename,
		Size:         header.Size,
		MimeType:     mimeType,
	}, nil
}

// Discard removes a stored file if it is still present. Failures are
// logged, not returned.
func (u *Uploader) Discard(ctx context.Context, key string) {
	ok, err := u.backend.Exists(ctx, key)
	if err != nil {
		slog.Warn("stat stored file failed", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := u.backend.Remove(ctx, key); err != nil {
		slog.Warn("remove stored file failed", "key", key, "error", err)
		return
	}
	slog.Info("stored file removed", "key", key)
}

// URL returns the public URL of a stored file.
func (u *Uploader) URL(key string) string {
	return u.backend.URL(key)
}

// videoTypes covers containers the stdlib mime table may not know.
var videoTypes = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".avi": "video/x-msvideo",
}

// detectType sniffs content, falling back to the extension only when the
// content is not recognized at all (QuickTime, for instance).
func detectType(head []byte, ext string) string {
	sniffed := http.DetectContentType(head)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	if sniffed != "application/octet-stream" {
		return sniffed
	}
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if i := strings.IndexByte(byExt, ';'); i >= 0 {
			byExt = byExt[:i]
		}
		return byExt
	}
	return sniffed
}
