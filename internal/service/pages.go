// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/store"
	"github.com/olegiv/blockpress/internal/util"
)

// Page authoring errors.
var (
	ErrSlugTaken       = errors.New("slug already in use")
	ErrInvalidSlug     = errors.New("invalid slug")
	ErrInvalidPageType = errors.New("invalid page type")
	ErrTitleRequired   = errors.New("title is required")
)

// PageInput holds the editable fields of a page.
type PageInput struct {
	Title           string
	Slug            string // derived from Title when empty
	Type            string // defaults to model.PageTypePage
	IsBlogContainer bool
	Excerpt         string
	Author          string
	PublishedDate   string
	FeaturedPNG     string
	FeaturedWebP    string
}

// BlockUpdate holds the editable fields of a block instance.
type BlockUpdate struct {
	Title           string
	OverrideContent string
	UseDefault      bool
	SortOrder       int64
}

// PageService creates pages and manages their blocks, parameters and
// category assignments.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewPageService creates a new PageService.
func NewPageService(db *sql.DB, logger *slog.Logger) *PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{db: db, queries: store.New(db), logger: logger}
}

// Create inserts a new unpublished page and attaches every default block
// definition to it in a single transaction.
func (s *PageService) Create(ctx context.Context, in PageInput) (*model.Page, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	pageType := in.Type
	if pageType == "" {
		pageType = model.PageTypePage
	}
	if pageType != model.PageTypePage && pageType != model.PageTypeBlog {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPageType, pageType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := s.queries.WithTx(tx)

	exists, err := queries.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("checking slug: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}

	now := time.Now()
	row, err := queries.CreatePage(ctx, store.CreatePageParams{
		Title:           title,
		Slug:            slug,
		Type:            pageType,
		IsBlogContainer: in.IsBlogContainer,
		Excerpt:         util.NullStringTrimmed(in.Excerpt),
		Author:          util.NullStringTrimmed(in.Author),
		PublishedDate:   util.NullStringTrimmed(in.PublishedDate),
		FeaturedPng:     util.NullStringTrimmed(in.FeaturedPNG),
		FeaturedWebp:    util.NullStringTrimmed(in.FeaturedWebP),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	attached, err := attachDefaultBlocks(ctx, queries, row.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("page created", "page_id", row.ID, "slug", slug, "type", pageType, "blocks", attached)

	page := pageFromStore(row)
	return &page, nil
}

// attachDefaultBlocks appends an instance of every default block definition
// to the page, seeding parameters from the definition defaults. Returns the
// number of attached instances.
func attachDefaultBlocks(ctx context.Context, queries *store.Queries, pageID int64) (int, error) {
	defs, err := queries.ListDefaultBlockDefinitions(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing default blocks: %w", err)
	}
	for i, def := range defs {
		if _, err := addBlock(ctx, queries, pageID, def, int64(i+1)); err != nil {
			return 0, err
		}
	}
	return len(defs), nil
}

// addBlock creates a default-content instance of def at sortOrder and binds
// the definition's default parameters to it.
func addBlock(ctx context.Context, queries *store.Queries, pageID int64, def store.BlockDefinition, sortOrder int64) (*model.BlockInstance, error) {
	defaults, err := model.ParseDefaultParameters(def.DefaultParameters)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", def.Slug, err)
	}

	now := time.Now()
	inst, err := queries.CreateBlockInstance(ctx, store.CreateBlockInstanceParams{
		PageID:       pageID,
		DefinitionID: def.ID,
		UseDefault:   true,
		SortOrder:    sortOrder,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("attaching block %q: %w", def.Slug, err)
	}

	for name, value := range defaults {
		if err := queries.UpsertBlockParameter(ctx, store.UpsertBlockParameterParams{
			InstanceID: inst.ID,
			Name:       name,
			Value:      value,
			CreatedAt:  now,
		}); err != nil {
			return nil, fmt.Errorf("seeding parameter %q of block %q: %w", name, def.Slug, err)
		}
	}

	return &model.BlockInstance{
		ID:             inst.ID,
		PageID:         pageID,
		DefinitionID:   def.ID,
		DefinitionSlug: def.Slug,
		UseDefault:     true,
		SortOrder:      sortOrder,
		DefaultContent: def.Content,
	}, nil
}

// AddBlock appends an instance of a block definition after the page's last
// block.
func (s *PageService) AddBlock(ctx context.Context, pageID, definitionID int64) (*model.BlockInstance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := s.queries.WithTx(tx)

	def, err := queries.GetBlockDefinition(ctx, definitionID)
	if err != nil {
		return nil, fmt.Errorf("loading block definition %d: %w", definitionID, err)
	}
	maxOrder, err := queries.GetMaxBlockSortOrder(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("reading block order: %w", err)
	}

	inst, err := addBlock(ctx, queries, pageID, def, maxOrder+1)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inst, nil
}

// UpdateBlock saves an instance's title, override content, default switch
// and position. The override is stored even while UseDefault is set.
func (s *PageService) UpdateBlock(ctx context.Context, instanceID int64, u BlockUpdate) error {
	return s.queries.UpdateBlockInstance(ctx, store.UpdateBlockInstanceParams{
		Title:           util.NullStringFromValue(u.Title),
		OverrideContent: util.NullStringFromValue(u.OverrideContent),
		UseDefault:      u.UseDefault,
		SortOrder:       u.SortOrder,
		ID:              instanceID,
	})
}

// SaveParameters creates or overwrites parameter bindings of an instance.
// Names not present in params are left unchanged.
func (s *PageService) SaveParameters(ctx context.Context, instanceID int64, params map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := s.queries.WithTx(tx)
	now := time.Now()
	for name, value := range params {
		if err := queries.UpsertBlockParameter(ctx, store.UpsertBlockParameterParams{
			InstanceID: instanceID,
			Name:       name,
			Value:      value,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("saving parameter %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// CreateCategory creates a blog category. The slug is derived from the title.
func (s *PageService) CreateCategory(ctx context.Context, title string, sortOrder int64) (*model.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	slug := util.Slugify(title)
	if !util.IsValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	row, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Title:     title,
		Slug:      slug,
		SortOrder: sortOrder,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &model.Category{ID: row.ID, Title: row.Title, Slug: row.Slug, SortOrder: row.SortOrder}, nil
}

// AssignCategory maps a page to a blog category. Assigning twice is a no-op.
func (s *PageService) AssignCategory(ctx context.Context, pageID, categoryID int64) error {
	return s.queries.AssignPageCategory(ctx, store.AssignPageCategoryParams{
		PageID:     pageID,
		CategoryID: categoryID,
	})
}

// Delete removes a page with its block instances and parameters.
func (s *PageService) Delete(ctx context.Context, pageID int64) error {
	return s.queries.DeletePage(ctx, pageID)
}
