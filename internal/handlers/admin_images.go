// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"propertycms/internal/models"
	"propertycms/internal/upload"
)

type imageInput struct {
	CategoryID flexID  `json:"category_id"`
	Title      *string `json:"title"`
	TitleAr    *string `json:"title_ar"`
	VideoURL   *string `json:"video_url"`
	ImageURL   *string `json:"image_url"`
}

// readImageForm reads the image fields of a multipart or urlencoded form.
func readImageForm(r *http.Request) *imageInput {
	in := &imageInput{
		Title:    optional(r.FormValue("title")),
		TitleAr:  optional(r.FormValue("title_ar")),
		VideoURL: optional(r.FormValue("video_url")),
		ImageURL: optional(r.FormValue("image_url")),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("category_id")), 10, 64); err == nil {
		in.CategoryID = flexID(id)
	}
	return in
}

// uploadError maps an upload rejection to a client response.
func uploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		writeError(w, "File too large", http.StatusBadRequest)
	case errors.Is(err, upload.ErrFileType):
		writeError(w, "Only image and video files are allowed!", http.StatusBadRequest)
	case errors.Is(err, upload.ErrNoFile):
		writeError(w, "No file uploaded or image URL provided", http.StatusBadRequest)
	default:
		slog.Error("upload failed", "path", r.URL.Path, "error", err)
		writeError(w, "File upload failed", http.StatusInternalServerError)
	}
}

// CreateImage handles POST /api/images. The body is either multipart
// (an "image" file part and/or an image_url field) or JSON with an
// image_url. category_id is required in both cases; it is checked before
// any file is stored.
func (a *Admin) CreateImage(w http.ResponseWriter, r *http.Request) {
	var (
		in      *imageInput
		hasFile bool
	)
	if isJSON(r) {
		in = &imageInput{}
		if err := decodeJSON(w, r, in); err != nil {
			respond(w, r, err, "")
			return
		}
		in.Title = trimPtr(in.Title)
		in.TitleAr = trimPtr(in.TitleAr)
		in.VideoURL = trimPtr(in.VideoURL)
		in.ImageURL = trimPtr(in.ImageURL)
	} else {
		if err := a.uploader.ParseForm(w, r); err != nil {
			if errors.Is(err, upload.ErrFileTooLarge) {
				uploadError(w, r, err)
				return
			}
			writeError(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		defer upload.CleanupForm(r)
		in = readImageForm(r)
		hasFile = upload.HasFile(r)
	}

	if !hasFile && in.ImageURL == nil {
		writeError(w, "No file uploaded or image URL provided", http.StatusBadRequest)
		return
	}
	if in.CategoryID <= 0 {
		writeError(w, "Category ID is required", http.StatusBadRequest)
		return
	}
	if msg := validateImageMeta(in.Title, in.TitleAr, in.VideoURL, in.ImageURL); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}
	category, err := a.categories.FindByID(r.Context(), int64(in.CategoryID))
	if err != nil {
		respond(w, r, err, "")
		return
	}
	if category == nil {
		writeError(w, "Category not found", http.StatusBadRequest)
		return
	}

	img := &models.LegacyImage{
		CategoryID: int64(in.CategoryID),
		Title:      in.Title,
		TitleAr:    in.TitleAr,
		VideoURL:   in.VideoURL,
		ImageURL:   in.ImageURL,
	}

	var stored *upload.Stored
	if hasFile {
		stored, err = a.uploader.Receive(r, img.CategoryID)
		if err != nil {
			uploadError(w, r, err)
			return
		}
		img.Filename = &stored.Filename
		img.OriginalName = &stored.OriginalName
		img.FileSize = &stored.Size
		img.MimeType = &stored.MimeType
	}

	created, err := a.images.Create(r.Context(), img)
	if err != nil {
		if stored != nil {
			a.discardFiles(r.Context(), stored.Filename)
		}
		respond(w, r, err, "")
		return
	}

	a.invalidate(r.Context(), "image", &created.ID, "create")
	slog.Info("image created", "id", created.ID, "category_id", created.CategoryID, "uploaded", stored != nil)

	var filename *string
	url := ""
	if created.Filename != nil {
		filename = created.Filename
		url = a.uploader.URL(*created.Filename)
	}
	if created.ImageURL != nil {
		url = *created.ImageURL
	}
	resp := map[string]any{
		"success":   true,
		"id":        created.ID,
		"filename":  filename,
		"image_url": created.ImageURL,
		"url":       url,
		"message":   "Image uploaded successfully",
	}
	if stored != nil {
		resp["size"] = created.HumanSize()
		resp["media_type"] = "video"
		if created.IsImage() {
			resp["media_type"] = "image"
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

type imageMetaInput struct {
	Title    *string `json:"title"`
	TitleAr  *string `json:"title_ar"`
	VideoURL *string `json:"video_url"`
}

// UpdateImage handles PUT /api/images/{id}. Only the descriptive fields
// can change; the file itself is immutable.
func (a *Admin) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}
	var in imageMetaInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond(w, r, err, "")
		return
	}
	title, titleAr, videoURL := trimPtr(in.Title), trimPtr(in.TitleAr), trimPtr(in.VideoURL)
	if msg := validateImageMeta(title, titleAr, videoURL, nil); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	updated, err := a.images.UpdateMeta(r.Context(), id, title, titleAr, videoURL)
	if err != nil {
		respond(w, r, err, "Image not found")
		return
	}

	a.invalidate(r.Context(), "image", &id, "update")
	slog.Info("image updated", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"image":   updated,
		"message": "Image updated successfully",
	})
}

// DeleteImage handles DELETE /api/images/{id}. The row goes first, then
// its stored file if any.
func (a *Admin) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	deleted, err := a.images.Delete(r.Context(), id)
	if err != nil {
		respond(w, r, err, "Image not found")
		return
	}
	if deleted.Filename != nil && *deleted.Filename != "" {
		a.discardFiles(r.Context(), *deleted.Filename)
	}

	a.invalidate(r.Context(), "image", &id, "delete")
	slog.Info("image deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Image deleted successfully",
	})
}
