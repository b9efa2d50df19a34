// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for catalog fields.
const (
	maxNameLen        = 200
	maxDescriptionLen = 5_000
	maxURLLen         = 2_048
	maxImagesPerCall  = 100
)

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name string, nameAr, description, descriptionAr *string) string {
	if strings.TrimSpace(name) == "" {
		return "Category name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen || tooLong(nameAr, maxNameLen) {
		return "Category name is too long (max 200 characters)"
	}
	if tooLong(description, maxDescriptionLen) || tooLong(descriptionAr, maxDescriptionLen) {
		return "Description is too long (max 5,000 characters)"
	}
	return ""
}

// validateProperty checks property inputs and returns the first error found.
func validateProperty(in *propertyInput) string {
	if in.TitleEn == nil || strings.TrimSpace(*in.TitleEn) == "" {
		return "Property title (English) is required"
	}
	if in.CategoryID <= 0 {
		return "Category ID is required"
	}
	if tooLong(in.TitleEn, maxNameLen) || tooLong(in.TitleAr, maxNameLen) || tooLong(in.Location, maxNameLen) {
		return "Title or location is too long (max 200 characters)"
	}
	if tooLong(in.DescriptionEn, maxDescriptionLen) || tooLong(in.DescriptionAr, maxDescriptionLen) {
		return "Description is too long (max 5,000 characters)"
	}
	if tooLong(in.VideoURL, maxURLLen) {
		return "Video URL is too long"
	}
	if len(in.Images) > maxImagesPerCall {
		return "Too many images (max 100)"
	}
	for _, img := range in.Images {
		if strings.TrimSpace(img.ImageURL) == "" {
			return "Every image needs an image_url"
		}
		if utf8.RuneCountInString(img.ImageURL) > maxURLLen {
			return "Image URL is too long"
		}
	}
	return ""
}

// validateImageMeta checks the editable image fields.
func validateImageMeta(title, titleAr, videoURL, imageURL *string) string {
	if tooLong(title, maxNameLen) || tooLong(titleAr, maxNameLen) {
		return "Title is too long (max 200 characters)"
	}
	if tooLong(videoURL, maxURLLen) || tooLong(imageURL, maxURLLen) {
		return "URL is too long"
	}
	return ""
}

func tooLong(s *string, limit int) bool {
	return s != nil && utf8.RuneCountInString(*s) > limit
}
