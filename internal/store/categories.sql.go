// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createCategory = `-- name: CreateCategory :one
INSERT INTO blog_categories (title, slug, sort_order, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, title, slug, sort_order, created_at`

type CreateCategoryParams struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (BlogCategory, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.Title, arg.Slug, arg.SortOrder, arg.CreatedAt)
	var i BlogCategory
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.SortOrder,
		&i.CreatedAt,
	)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, title, slug, sort_order, created_at FROM blog_categories
ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListCategories(ctx context.Context) ([]BlogCategory, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BlogCategory{}
	for rows.Next() {
		var i BlogCategory
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.SortOrder,
			&i.CreatedAt,
		); err != nil {
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

const assignPageCategory = `-- name: AssignPageCategory :exec
INSERT OR IGNORE INTO page_blog_categories (page_id, category_id) VALUES (?, ?)`

type AssignPageCategoryParams struct {
	PageID     int64 `json:"page_id"`
	CategoryID int64 `json:"category_id"`
}

func (q *Queries) AssignPageCategory(ctx context.Context, arg AssignPageCategoryParams) error {
	_, err := q.db.ExecContext(ctx, assignPageCategory, arg.PageID, arg.CategoryID)
	return err
}
