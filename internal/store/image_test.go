// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"github.com/pashagolub/pgxmock/v4"

	"propertycms/internal/models"
)

var imageCols = []string{
	"id", "category_id", "filename", "original_name", "title", "title_ar",
	"video_url", "file_size", "mime_type", "image_url", "created_at",
}

func (s *storeSuite) imageRow(id, categoryID int64, filename *string) *pgxmock.Rows {
	size := int64(2048)
	return pgxmock.NewRows(imageCols).AddRow(
		id, categoryID, filename, strPtr("photo.jpg"), strPtr("Lobby"), (*string)(nil),
		(*string)(nil), &size, strPtr("image/jpeg"), (*string)(nil), s.now,
	)
}

func (s *storeSuite) TestImageListByCategories() {
	s.mock.ExpectQuery(`FROM images WHERE category_id = ANY\(\$1\) ORDER BY created_at DESC, id DESC`).
		WithArgs([]int64{1}).
		WillReturnRows(s.imageRow(3, 1, strPtr("category_1/x.jpg")))

	items, err := NewImageStore(s.mock).ListByCategories(s.ctx, []int64{1})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("category_1/x.jpg", *items[0].Filename)
	s.Equal(int64(2048), *items[0].FileSize)
}

func (s *storeSuite) TestImageCreate() {
	s.mock.ExpectQuery(`INSERT INTO images`).
		WithArgs(int64(1), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(s.imageRow(3, 1, strPtr("category_1/x.jpg")))

	m, err := NewImageStore(s.mock).Create(s.ctx, &models.LegacyImage{CategoryID: 1, Filename: strPtr("category_1/x.jpg")})
	s.Require().NoError(err)
	s.Equal(int64(3), m.ID)
}

func (s *storeSuite) TestImageUpdateMetaNotFound() {
	s.mock.ExpectQuery(`UPDATE images SET title`).
		WithArgs(strPtr("New"), (*string)(nil), (*string)(nil), int64(9)).
		WillReturnRows(pgxmock.NewRows(imageCols))

	_, err := NewImageStore(s.mock).UpdateMeta(s.ctx, 9, strPtr("New"), nil, nil)
	s.ErrorIs(err, ErrNotFound)
}

func (s *storeSuite) TestImageDelete() {
	s.mock.ExpectQuery(`DELETE FROM images WHERE id = \$1 RETURNING`).
		WithArgs(int64(3)).
		WillReturnRows(s.imageRow(3, 1, strPtr("category_1/x.jpg")))

	m, err := NewImageStore(s.mock).Delete(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal("category_1/x.jpg", *m.Filename)
}

func (s *storeSuite) TestImageDeleteNotFound() {
	s.mock.ExpectQuery(`DELETE FROM images`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(imageCols))

	_, err := NewImageStore(s.mock).Delete(s.ctx, 404)
	s.ErrorIs(err, ErrNotFound)
}
