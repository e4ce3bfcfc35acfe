// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Page struct {
	ID              int64          `json:"id"`
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

type BlockDefinition struct {
	ID                int64     `json:"id"`
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

type BlockInstance struct {
	ID              int64          `json:"id"`
	PageID          int64          `json:"page_id"`
	DefinitionID    int64          `json:"definition_id"`
	Title           sql.NullString `json:"title"`
	OverrideContent sql.NullString `json:"override_content"`
	UseDefault      bool           `json:"use_default"`
	SortOrder       int64          `json:"sort_order"`
	CreatedAt       time.Time      `json:"created_at"`
}

type BlockParameter struct {
	ID         int64     `json:"id"`
	InstanceID int64     `json:"instance_id"`
	Name       string    `json:"name"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogCategory struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
