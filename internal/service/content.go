// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic layer on top of the store:
// the content adapter consumed by the composer, page authoring and event
// logging for audit trails.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/blockpress/internal/compose"
	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/store"
)

// ContentStore adapts the generated queries to the composer's read-only
// Source and Settings interfaces. Settings are read from the database on
// every call so changes apply to the next render without a restart.
type ContentStore struct {
	queries *store.Queries
}

var (
	_ compose.Source   = (*ContentStore)(nil)
	_ compose.Settings = (*ContentStore)(nil)
)

// NewContentStore creates a new ContentStore.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{queries: store.New(db)}
}

// GetPage returns the page with the given id, or nil if it does not exist.
func (s *ContentStore) GetPage(ctx context.Context, id int64) (*model.Page, error) {
	p, err := s.queries.GetPageByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	page := pageFromStore(p)
	return &page, nil
}

// ListBlockInstances returns a page's block instances in render order.
func (s *ContentStore) ListBlockInstances(ctx context.Context, pageID int64) ([]model.BlockInstance, error) {
	rows, err := s.queries.ListBlockInstancesForPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	instances := make([]model.BlockInstance, 0, len(rows))
	for _, r := range rows {
		instances = append(instances, model.BlockInstance{
			ID:              r.ID,
			PageID:          r.PageID,
			DefinitionID:    r.DefinitionID,
			DefinitionSlug:  r.DefinitionSlug,
			Title:           r.Title.String,
			OverrideContent: r.OverrideContent.String,
			UseDefault:      r.UseDefault,
			SortOrder:       r.SortOrder,
			DefaultContent:  r.DefaultContent,
		})
	}
	return instances, nil
}

// GetParameters returns the parameter bindings of a block instance.
func (s *ContentStore) GetParameters(ctx context.Context, instanceID int64) (map[string]string, error) {
	rows, err := s.queries.ListBlockParameters(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	params := make(map[string]string, len(rows))
	for _, r := range rows {
		params[r.Name] = r.Value
	}
	return params, nil
}

// ListPublishedBlogPages returns published blog pages, newest first.
func (s *ContentStore) ListPublishedBlogPages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.queries.ListPublishedBlogPages(ctx)
	if err != nil {
		return nil, err
	}
	pages := pagesFromStore(rows)
	model.SortNewestFirst(pages)
	return pages, nil
}

// ListPublishedPages returns every published page.
func (s *ContentStore) ListPublishedPages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.queries.ListPublishedPages(ctx)
	if err != nil {
		return nil, err
	}
	return pagesFromStore(rows), nil
}

// ListCategories returns all blog categories in display order.
func (s *ContentStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, model.Category{
			ID:        r.ID,
			Title:     r.Title,
			Slug:      r.Slug,
			SortOrder: r.SortOrder,
		})
	}
	return categories, nil
}

// ListPagesInCategory returns published blog pages in a category, newest first.
func (s *ContentStore) ListPagesInCategory(ctx context.Context, categoryID int64) ([]model.Page, error) {
	rows, err := s.queries.ListPublishedBlogPagesInCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	pages := pagesFromStore(rows)
	model.SortNewestFirst(pages)
	return pages, nil
}

// GetBlogContainer returns the first page flagged as blog container, or nil.
func (s *ContentStore) GetBlogContainer(ctx context.Context) (*model.Page, error) {
	p, err := s.queries.GetBlogContainerPage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	page := pageFromStore(p)
	return &page, nil
}

// ListPublishedPageIDsByDefinition returns ids of published pages that use
// the given block definition.
func (s *ContentStore) ListPublishedPageIDsByDefinition(ctx context.Context, definitionID int64) ([]int64, error) {
	return s.queries.ListPublishedPageIDsByDefinition(ctx, definitionID)
}

// SetPublished updates a page's published flag.
func (s *ContentStore) SetPublished(ctx context.Context, pageID int64, published bool) error {
	return s.queries.SetPagePublished(ctx, store.SetPagePublishedParams{
		Published: published,
		UpdatedAt: time.Now(),
		ID:        pageID,
	})
}

// GetSetting returns a setting value. ok is false when the key is unset.
func (s *ContentStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	setting, err := s.queries.GetSetting(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// SetSetting stores a setting value, keeping the existing description.
func (s *ContentStore) SetSetting(ctx context.Context, key, value string) error {
	return s.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

func pageFromStore(p store.Page) model.Page {
	return model.Page{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Type:            p.Type,
		Published:       p.Published,
		IsBlogContainer: p.IsBlogContainer,
		Excerpt:         p.Excerpt.String,
		Author:          p.Author.String,
		PublishedDate:   p.PublishedDate.String,
		FeaturedPNG:     p.FeaturedPng.String,
		FeaturedWebP:    p.FeaturedWebp.String,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func pagesFromStore(rows []store.Page) []model.Page {
	pages := make([]model.Page, 0, len(rows))
	for _, r := range rows {
		pages = append(pages, pageFromStore(r))
	}
	return pages
}
