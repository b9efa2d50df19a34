// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContactEntry is one row of contact_info (a phone number, email, address…).
type ContactEntry struct {
	ID        int64     `json:"-"`
	Type      string    `json:"-"`
	Value     string    `json:"value"`
	LabelEn   *string   `json:"label_en"`
	LabelAr   *string   `json:"label_ar"`
	CreatedAt time.Time `json:"-"`
}

// ContactInfo groups contact entries by type, preserving insertion order
// within each group. It is both the GET response and the PUT request body.
type ContactInfo map[string][]ContactEntry

// GroupContacts builds a ContactInfo from flat rows.
func GroupContacts(entries []ContactEntry) ContactInfo {
	info := ContactInfo{}
	for _, e := range entries {
		info[e.Type] = append(info[e.Type], e)
	}
	return info
}

// Company is a partner company shown by the front-end.
type Company struct {
	ID        int64     `json:"-"`
	NameEn    string    `json:"name_en"`
	NameAr    *string   `json:"name_ar"`
	CreatedAt time.Time `json:"-"`
}
