// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/pashagolub/pgxmock/v4"

	"propertycms/internal/models"
)

func (s *storeSuite) TestContactList() {
	s.mock.ExpectQuery(`FROM contact_info ORDER BY type, id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "value", "label_en", "label_ar", "created_at"}).
			AddRow(int64(2), "email", "info@example.com", strPtr("General"), (*string)(nil), s.now).
			AddRow(int64(1), "phone", "+966", strPtr("Office"), strPtr("المكتب"), s.now))

	items, err := NewContactStore(s.mock).List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("email", items[0].Type)
	s.Equal("المكتب", *items[1].LabelAr)
}

func (s *storeSuite) TestContactReplaceWritesTypesInOrder() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM contact_info`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	s.mock.ExpectExec(`INSERT INTO contact_info`).
		WithArgs("email", "a@b.c", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO contact_info`).
		WithArgs("phone", "1", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO contact_info`).
		WithArgs("phone", "2", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectCommit()

	err := NewContactStore(s.mock).Replace(s.ctx, models.ContactInfo{
		"phone": {{Value: "1"}, {Value: "2"}},
		"email": {{Value: "a@b.c"}},
	})
	s.NoError(err)
}

func (s *storeSuite) TestContactReplaceRollsBack() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM contact_info`).
		WillReturnError(errors.New("locked"))
	s.mock.ExpectRollback()

	err := NewContactStore(s.mock).Replace(s.ctx, models.ContactInfo{"phone": {{Value: "1"}}})
	s.ErrorContains(err, "clear contact info")
}

func (s *storeSuite) TestCompanyList() {
	s.mock.ExpectQuery(`FROM companies ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name_en", "name_ar", "created_at"}).
			AddRow(int64(1), "Acme", strPtr("أكمي"), s.now))

	items, err := NewCompanyStore(s.mock).List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Acme", items[0].NameEn)
}

func (s *storeSuite) TestUserFindByUsername() {
	s.mock.ExpectQuery(`FROM admin_users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(1), "admin", "$2a$10$hash", s.now))
	s.mock.ExpectQuery(`FROM admin_users`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	users := NewUserStore(s.mock)
	u, err := users.FindByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	s.Equal(int64(1), u.ID)

	missing, err := users.FindByUsername(s.ctx, "ghost")
	s.NoError(err)
	s.Nil(missing)
}

func (s *storeSuite) TestCacheLogBestEffort() {
	id := int64(4)
	s.mock.ExpectExec(`INSERT INTO cache_invalidation_log`).
		WithArgs("category", &id, "delete").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec(`INSERT INTO cache_invalidation_log`).
		WithArgs("catalog", (*int64)(nil), "clear").
		WillReturnError(errors.New("table missing"))

	logs := NewCacheLogStore(s.mock)
	logs.Log(s.ctx, "category", &id, "delete")
	// A failed insert is swallowed.
	logs.Log(s.ctx, "catalog", nil, "clear")
}

func (s *storeSuite) TestCacheLogRecentEntries() {
	id := int64(4)
	s.mock.ExpectQuery(`FROM cache_invalidation_log ORDER BY invalidated_at DESC, id DESC LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "entity_type", "entity_id", "action", "invalidated_at"}).
			AddRow(int64(2), "catalog", (*int64)(nil), "clear", s.now).
			AddRow(int64(1), "category", &id, "delete", s.now))

	entries, err := NewCacheLogStore(s.mock).RecentEntries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Nil(entries[0].EntityID)
	s.Equal(int64(4), *entries[1].EntityID)
}
