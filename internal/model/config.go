// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting keys
const (
	SettingKeySiteName           = "site_name"
	SettingKeySiteDescription    = "site_description"
	SettingKeyBaseURL            = "base_url"
	SettingKeyBlogLatestTemplate = "blog_latest_template"
	SettingKeyArticlesPerPage    = "blog_articles_per_page"
)

// Setting defaults used when a key is unset.
const (
	DefaultBaseURL         = "http://localhost:5000"
	DefaultArticlesPerPage = 20

	DefaultBlogLatestTemplate = `<li class="blog-latest-item">
<a href="{href}">{title}</a>
<div class="featured-image">{featured_image}</div>
<div class="excerpt">{excerpt}</div>
<a class="btn btn-filled btn-lg mb0" href="{href}">Read More</a>
</li>`
)

// Setting represents a global site setting.
type Setting struct {
	Key         string
	Value       string
	Description string
	UpdatedAt   time.Time
}
