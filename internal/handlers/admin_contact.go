// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"propertycms/internal/models"
)

// maxContactEntries caps a contact replacement.
const maxContactEntries = 200

// UpdateContact handles PUT /api/contact. The body has the GET shape,
// {"phone": [{"value": ..., "label_en": ..., "label_ar": ...}], ...}, and
// replaces every stored entry.
func (a *Admin) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var in map[string][]models.ContactEntry
	if err := decodeJSON(w, r, &in); err != nil {
		respond(w, r, err, "")
		return
	}

	info := models.ContactInfo{}
	total := 0
	for typ, entries := range in {
		typ = strings.TrimSpace(typ)
		if typ == "" {
			writeError(w, "Contact type is required", http.StatusBadRequest)
			return
		}
		for _, e := range entries {
			value := strings.TrimSpace(e.Value)
			if value == "" {
				writeError(w, "Contact value is required", http.StatusBadRequest)
				return
			}
			if utf8.RuneCountInString(value) > maxDescriptionLen || tooLong(e.LabelEn, maxNameLen) || tooLong(e.LabelAr, maxNameLen) {
				writeError(w, "Contact entry is too long", http.StatusBadRequest)
				return
			}
			info[typ] = append(info[typ], models.ContactEntry{
				Type:    typ,
				Value:   value,
				LabelEn: trimPtr(e.LabelEn),
				LabelAr: trimPtr(e.LabelAr),
			})
			total++
		}
	}
	if total > maxContactEntries {
		writeError(w, "Too many contact entries (max 200)", http.StatusBadRequest)
		return
	}

	if err := a.contacts.Replace(r.Context(), info); err != nil {
		respond(w, r, err, "")
		return
	}

	slog.Info("contact info replaced", "types", len(info), "entries", total)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Contact information updated successfully",
	})
}
