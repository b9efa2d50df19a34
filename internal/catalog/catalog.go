// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog builds the public category listing: every category with
// its media rendered into one flat images list, either from its
// properties or, in the older data shape, from images attached directly.
package catalog

import (
	"context"
	"fmt"

	"propertycms/internal/models"
)

// BranchMode selects when a category falls back to its direct images.
type BranchMode string

const (
	// BranchGlobal uses direct images only when no category has any
	// property at all.
	BranchGlobal BranchMode = "global"
	// BranchPerCategory uses direct images for every category that has no
	// properties, independently of its siblings.
	BranchPerCategory BranchMode = "per-category"
)

// CategoryLister lists all categories, newest first.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// PropertyReader reads properties and their images for a set of categories.
type PropertyReader interface {
	ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.Property, error)
	ImagesForProperties(ctx context.Context, propertyIDs []int64) ([]models.PropertyImage, error)
}

// ImageLister reads the images attached directly to categories.
type ImageLister interface {
	ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.LegacyImage, error)
}

// Aggregator assembles the category listing from the stores.
type Aggregator struct {
	categories CategoryLister
	properties PropertyReader
	images     ImageLister
	urlFor     func(filename string) string
	mode       BranchMode
}

// New creates an Aggregator. urlFor maps a stored filename to its public
// URL. An unknown mode falls back to BranchGlobal.
func New(categories CategoryLister, properties PropertyReader, images ImageLister, urlFor func(string) string, mode BranchMode) *Aggregator {
	if mode != BranchPerCategory {
		mode = BranchGlobal
	}
	return &Aggregator{
		categories: categories,
		properties: properties,
		images:     images,
		urlFor:     urlFor,
		mode:       mode,
	}
}

// Mode returns the branch mode in effect.
func (a *Aggregator) Mode() BranchMode {
	return a.mode
}

// Categories returns every category with its images list. The result is
// never nil and each category's Images is never nil. Any store failure
// aborts the whole computation.
func (a *Aggregator) Categories(ctx context.Context) ([]models.CategoryView, error) {
	cats, err := a.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(cats) == 0 {
		return []models.CategoryView{}, nil
	}

	categoryIDs := make([]int64, len(cats))
	for i, c := range cats {
		categoryIDs[i] = c.ID
	}

	props, err := a.properties.ListByCategories(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	byCategory := make(map[int64][]models.MediaItem, len(cats))

	if len(props) > 0 {
		if err := a.addPropertyMedia(ctx, props, byCategory); err != nil {
			return nil, err
		}
	}

	if legacyIDs := a.legacyCategories(categoryIDs, props); len(legacyIDs) > 0 {
		if err := a.addDirectMedia(ctx, legacyIDs, byCategory); err != nil {
			return nil, err
		}
	}

	views := make([]models.CategoryView, len(cats))
	for i, c := range cats {
		views[i] = models.NewCategoryView(c, byCategory[c.ID])
	}
	return views, nil
}

// legacyCategories returns the categories whose media come from the
// images table under the current mode.
func (a *Aggregator) legacyCategories(categoryIDs []int64, props []models.Property) []int64 {
	if len(props) == 0 {
		return categoryIDs
	}
	if a.mode != BranchPerCategory {
		return nil
	}

	hasProps := make(map[int64]bool, len(props))
	for _, p := range props {
		hasProps[p.CategoryID] = true
	}
	var ids []int64
	for _, id := range categoryIDs {
		if !hasProps[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *Aggregator) addPropertyMedia(ctx context.Context, props []models.Property, into map[int64][]models.MediaItem) error {
	propertyIDs := make([]int64, len(props))
	for i, p := range props {
		propertyIDs[i] = p.ID
	}

	imgs, err := a.properties.ImagesForProperties(ctx, propertyIDs)
	if err != nil {
		return fmt.Errorf("load property images: %w", err)
	}

	byProperty := make(map[int64][]models.PropertyImage, len(props))
	for _, img := range imgs {
		byProperty[img.PropertyID] = append(byProperty[img.PropertyID], img)
	}

	for _, p := range props {
		own := byProperty[p.ID]
		if len(own) == 0 {
			into[p.CategoryID] = append(into[p.CategoryID], models.NewPropertyMedia(p, nil))
			continue
		}
		for i := range own {
			into[p.CategoryID] = append(into[p.CategoryID], models.NewPropertyMedia(p, &own[i]))
		}
	}
	return nil
}

func (a *Aggregator) addDirectMedia(ctx context.Context, categoryIDs []int64, into map[int64][]models.MediaItem) error {
	imgs, err := a.images.ListByCategories(ctx, categoryIDs)
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	for _, img := range imgs {
		into[img.CategoryID] = append(into[img.CategoryID], models.NewDirectMedia(img, a.urlFor))
	}
	return nil
}
