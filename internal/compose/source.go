// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package compose assembles a page from its ordered block instances and
// resolves the block mini-language: parameters, conditionals and reserved
// page:, config: and blog: tokens.
package compose

import (
	"context"

	"github.com/olegiv/blockpress/internal/model"
)

// Source is the read-only content store consumed by the composer and the
// reserved token resolver.
type Source interface {
	// GetPage returns nil and no error when the page does not exist.
	GetPage(ctx context.Context, id int64) (*model.Page, error)
	// ListBlockInstances returns a page's instances ordered by sort order, then id.
	ListBlockInstances(ctx context.Context, pageID int64) ([]model.BlockInstance, error)
	GetParameters(ctx context.Context, instanceID int64) (map[string]string, error)
	// ListPublishedBlogPages returns published blog pages, newest first.
	ListPublishedBlogPages(ctx context.Context) ([]model.Page, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	// ListPagesInCategory returns published blog pages in a category, newest first.
	ListPagesInCategory(ctx context.Context, categoryID int64) ([]model.Page, error)
	// GetBlogContainer returns nil and no error when no page is flagged as container.
	GetBlogContainer(ctx context.Context) (*model.Page, error)
}

// Settings provides global settings. Implementations must not cache:
// every call reflects the current stored value.
type Settings interface {
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
}

// Error represents a compose error.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrPageNotFound indicates the requested page id does not exist.
const ErrPageNotFound Error = "page not found"
