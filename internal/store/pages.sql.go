// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, type, published, is_blog_container, excerpt, author, published_date, featured_png, featured_webp, created_at, updated_at`

// effectiveDateOrder is a stable pre-order only. published_date and
// created_at are stored as text in different layouts, so callers sort by
// parsed time afterwards.
const effectiveDateOrder = `id DESC`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Type,
		&i.Published,
		&i.IsBlogContainer,
		&i.Excerpt,
		&i.Author,
		&i.PublishedDate,
		&i.FeaturedPng,
		&i.FeaturedWebp,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listPages(ctx context.Context, query string, args ...interface{}) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Page{}
	for rows.Next() {
		i, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPage = `-- name: CreatePage :one
INSERT INTO pages (title, slug, type, published, is_blog_container, excerpt, author, published_date, featured_png, featured_webp, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Type            string         `json:"type"`
	Published       bool           `json:"published"`
	IsBlogContainer bool           `json:"is_blog_container"`
	Excerpt         sql.NullString `json:"excerpt"`
	Author          sql.NullString `json:"author"`
	PublishedDate   sql.NullString `json:"published_date"`
	FeaturedPng     sql.NullString `json:"featured_png"`
	FeaturedWebp    sql.NullString `json:"featured_webp"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Type,
		arg.Published,
		arg.IsBlogContainer,
		arg.Excerpt,
		arg.Author,
		arg.PublishedDate,
		arg.FeaturedPng,
		arg.FeaturedWebp,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPage(row)
}

const getPageByID = `-- name: GetPageByID :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	row := q.db.QueryRowContext(ctx, getPageByID, id)
	return scanPage(row)
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	row := q.db.QueryRowContext(ctx, getPageBySlug, slug)
	return scanPage(row)
}

const slugExists = `-- name: SlugExists :one
SELECT EXISTS(SELECT 1 FROM pages WHERE slug = ?)`

func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	row := q.db.QueryRowContext(ctx, slugExists, slug)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getBlogContainerPage = `-- name: GetBlogContainerPage :one
SELECT ` + pageColumns + ` FROM pages WHERE is_blog_container = 1 ORDER BY id ASC LIMIT 1`

func (q *Queries) GetBlogContainerPage(ctx context.Context) (Page, error) {
	row := q.db.QueryRowContext(ctx, getBlogContainerPage)
	return scanPage(row)
}

const listPublishedPages = `-- name: ListPublishedPages :many
SELECT ` + pageColumns + ` FROM pages WHERE published = 1 ORDER BY id ASC`

func (q *Queries) ListPublishedPages(ctx context.Context) ([]Page, error) {
	return q.listPages(ctx, listPublishedPages)
}

const listPublishedBlogPages = `-- name: ListPublishedBlogPages :many
SELECT ` + pageColumns + ` FROM pages
WHERE type = 'blog' AND published = 1
ORDER BY ` + effectiveDateOrder

func (q *Queries) ListPublishedBlogPages(ctx context.Context) ([]Page, error) {
	return q.listPages(ctx, listPublishedBlogPages)
}

const listPublishedBlogPagesInCategory = `-- name: ListPublishedBlogPagesInCategory :many
SELECT ` + pageColumns + ` FROM pages
WHERE type = 'blog' AND published = 1
  AND id IN (SELECT page_id FROM page_blog_categories WHERE category_id = ?)
ORDER BY ` + effectiveDateOrder

func (q *Queries) ListPublishedBlogPagesInCategory(ctx context.Context, categoryID int64) ([]Page, error) {
	return q.listPages(ctx, listPublishedBlogPagesInCategory, categoryID)
}

const listPublishedPageIDsByDefinition = `-- name: ListPublishedPageIDsByDefinition :many
SELECT DISTINCT p.id FROM pages p
JOIN block_instances bi ON bi.page_id = p.id
WHERE bi.definition_id = ? AND p.published = 1
ORDER BY p.id ASC`

func (q *Queries) ListPublishedPageIDsByDefinition(ctx context.Context, definitionID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPageIDsByDefinition, definitionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setPagePublished = `-- name: SetPagePublished :exec
UPDATE pages SET published = ?, updated_at = ? WHERE id = ?`

type SetPagePublishedParams struct {
	Published bool      `json:"published"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) SetPagePublished(ctx context.Context, arg SetPagePublishedParams) error {
	_, err := q.db.ExecContext(ctx, setPagePublished, arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

const deletePage = `-- name: DeletePage :exec
DELETE FROM pages WHERE id = ?`

func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}
