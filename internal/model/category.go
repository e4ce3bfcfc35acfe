// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Category is a blog category. Pages of type "blog" map to categories many-to-many.
type Category struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	SortOrder int64  `json:"sort_order"`
}
