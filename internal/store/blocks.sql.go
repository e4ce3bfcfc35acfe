// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const blockDefinitionColumns = `id, title, slug, category, content, is_default, sort_order, default_parameters, created_at, updated_at`

func scanBlockDefinition(row interface{ Scan(...any) error }) (BlockDefinition, error) {
	var i BlockDefinition
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Category,
		&i.Content,
		&i.IsDefault,
		&i.SortOrder,
		&i.DefaultParameters,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBlockDefinition = `-- name: CreateBlockDefinition :one
INSERT INTO block_definitions (title, slug, category, content, is_default, sort_order, default_parameters, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + blockDefinitionColumns

type CreateBlockDefinitionParams struct {
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	Category          string    `json:"category"`
	Content           string    `json:"content"`
	IsDefault         bool      `json:"is_default"`
	SortOrder         int64     `json:"sort_order"`
	DefaultParameters string    `json:"default_parameters"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (q *Queries) CreateBlockDefinition(ctx context.Context, arg CreateBlockDefinitionParams) (BlockDefinition, error) {
	row := q.db.QueryRowContext(ctx, createBlockDefinition,
		arg.Title,
		arg.Slug,
		arg.Category,
		arg.Content,
		arg.IsDefault,
		arg.SortOrder,
		arg.DefaultParameters,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBlockDefinition(row)
}

const insertBlockDefinitionIfMissing = `-- name: InsertBlockDefinitionIfMissing :exec
INSERT OR IGNORE INTO block_definitions (title, slug, category, content, is_default, sort_order, default_parameters, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertBlockDefinitionIfMissing(ctx context.Context, arg CreateBlockDefinitionParams) error {
	_, err := q.db.ExecContext(ctx, insertBlockDefinitionIfMissing,
		arg.Title,
		arg.Slug,
		arg.Category,
		arg.Content,
		arg.IsDefault,
		arg.SortOrder,
		arg.DefaultParameters,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getBlockDefinition = `-- name: GetBlockDefinition :one
SELECT ` + blockDefinitionColumns + ` FROM block_definitions WHERE id = ?`

func (q *Queries) GetBlockDefinition(ctx context.Context, id int64) (BlockDefinition, error) {
	row := q.db.QueryRowContext(ctx, getBlockDefinition, id)
	return scanBlockDefinition(row)
}

const listDefaultBlockDefinitions = `-- name: ListDefaultBlockDefinitions :many
SELECT ` + blockDefinitionColumns + ` FROM block_definitions
WHERE is_default = 1
ORDER BY sort_order ASC, id ASC`

func (q *Queries) ListDefaultBlockDefinitions(ctx context.Context) ([]BlockDefinition, error) {
	rows, err := q.db.QueryContext(ctx, listDefaultBlockDefinitions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BlockDefinition{}
	for rows.Next() {
		i, err := scanBlockDefinition(rows)
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

const createBlockInstance = `-- name: CreateBlockInstance :one
INSERT INTO block_instances (page_id, definition_id, title, override_content, use_default, sort_order, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, page_id, definition_id, title, override_content, use_default, sort_order, created_at`

type CreateBlockInstanceParams struct {
	PageID          int64          `json:"page_id"`
	DefinitionID    int64          `json:"definition_id"`
	Title           sql.NullString `json:"title"`
	OverrideContent sql.NullString `json:"override_content"`
	UseDefault      bool           `json:"use_default"`
	SortOrder       int64          `json:"sort_order"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (q *Queries) CreateBlockInstance(ctx context.Context, arg CreateBlockInstanceParams) (BlockInstance, error) {
	row := q.db.QueryRowContext(ctx, createBlockInstance,
		arg.PageID,
		arg.DefinitionID,
		arg.Title,
		arg.OverrideContent,
		arg.UseDefault,
		arg.SortOrder,
		arg.CreatedAt,
	)
	var i BlockInstance
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.DefinitionID,
		&i.Title,
		&i.OverrideContent,
		&i.UseDefault,
		&i.SortOrder,
		&i.CreatedAt,
	)
	return i, err
}

const updateBlockInstance = `-- name: UpdateBlockInstance :exec
UPDATE block_instances SET title = ?, override_content = ?, use_default = ?, sort_order = ? WHERE id = ?`

type UpdateBlockInstanceParams struct {
	Title           sql.NullString `json:"title"`
	OverrideContent sql.NullString `json:"override_content"`
	UseDefault      bool           `json:"use_default"`
	SortOrder       int64          `json:"sort_order"`
	ID              int64          `json:"id"`
}

func (q *Queries) UpdateBlockInstance(ctx context.Context, arg UpdateBlockInstanceParams) error {
	_, err := q.db.ExecContext(ctx, updateBlockInstance,
		arg.Title,
		arg.OverrideContent,
		arg.UseDefault,
		arg.SortOrder,
		arg.ID,
	)
	return err
}

const getMaxBlockSortOrder = `-- name: GetMaxBlockSortOrder :one
SELECT CAST(COALESCE(MAX(sort_order), 0) AS INTEGER) FROM block_instances WHERE page_id = ?`

func (q *Queries) GetMaxBlockSortOrder(ctx context.Context, pageID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMaxBlockSortOrder, pageID)
	var maxOrder int64
	err := row.Scan(&maxOrder)
	return maxOrder, err
}

const listBlockInstancesForPage = `-- name: ListBlockInstancesForPage :many
SELECT bi.id, bi.page_id, bi.definition_id, bi.title, bi.override_content, bi.use_default, bi.sort_order,
       d.slug AS definition_slug, d.content AS default_content
FROM block_instances bi
JOIN block_definitions d ON d.id = bi.definition_id
WHERE bi.page_id = ?
ORDER BY bi.sort_order ASC, bi.id ASC`

type ListBlockInstancesForPageRow struct {
	ID              int64          `json:"id"`
	PageID          int64          `json:"page_id"`
	DefinitionID    int64          `json:"definition_id"`
	Title           sql.NullString `json:"title"`
	OverrideContent sql.NullString `json:"override_content"`
	UseDefault      bool           `json:"use_default"`
	SortOrder       int64          `json:"sort_order"`
	DefinitionSlug  string         `json:"definition_slug"`
	DefaultContent  string         `json:"default_content"`
}

func (q *Queries) ListBlockInstancesForPage(ctx context.Context, pageID int64) ([]ListBlockInstancesForPageRow, error) {
	rows, err := q.db.QueryContext(ctx, listBlockInstancesForPage, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ListBlockInstancesForPageRow{}
	for rows.Next() {
		var i ListBlockInstancesForPageRow
		if err := rows.Scan(
			&i.ID,
			&i.PageID,
			&i.DefinitionID,
			&i.Title,
			&i.OverrideContent,
			&i.UseDefault,
			&i.SortOrder,
			&i.DefinitionSlug,
			&i.DefaultContent,
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

const upsertBlockParameter = `-- name: UpsertBlockParameter :exec
INSERT INTO block_parameters (instance_id, name, value, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (instance_id, name) DO UPDATE SET value = excluded.value`

type UpsertBlockParameterParams struct {
	InstanceID int64     `json:"instance_id"`
	Name       string    `json:"name"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) UpsertBlockParameter(ctx context.Context, arg UpsertBlockParameterParams) error {
	_, err := q.db.ExecContext(ctx, upsertBlockParameter, arg.InstanceID, arg.Name, arg.Value, arg.CreatedAt)
	return err
}

const listBlockParameters = `-- name: ListBlockParameters :many
SELECT id, instance_id, name, value, created_at FROM block_parameters
WHERE instance_id = ?
ORDER BY name ASC`

func (q *Queries) ListBlockParameters(ctx context.Context, instanceID int64) ([]BlockParameter, error) {
	rows, err := q.db.QueryContext(ctx, listBlockParameters, instanceID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BlockParameter{}
	for rows.Next() {
		var i BlockParameter
		if err := rows.Scan(
			&i.ID,
			&i.InstanceID,
			&i.Name,
			&i.Value,
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
