// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sort"
	"strings"
	"time"
)

// Page types
const (
	PageTypePage = "page"
	PageTypeBlog = "blog"
)

// Page represents a publishable page. Blog posts are pages of type "blog".
type Page struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Type            string    `json:"type"`
	Published       bool      `json:"published"`
	IsBlogContainer bool      `json:"is_blog_container"`
	Excerpt         string    `json:"excerpt,omitempty"`
	Author          string    `json:"author,omitempty"`
	PublishedDate   string    `json:"published_date,omitempty"`
	FeaturedPNG     string    `json:"featured_png,omitempty"`
	FeaturedWebP    string    `json:"featured_webp,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsBlog returns true if the page is a blog post.
func (p *Page) IsBlog() bool {
	return p.Type == PageTypeBlog
}

// HasFeaturedImage returns true if either featured image variant is set.
func (p *Page) HasFeaturedImage() bool {
	return strings.TrimSpace(p.FeaturedPNG) != "" || strings.TrimSpace(p.FeaturedWebP) != ""
}

// OutputPath returns the slash-separated path of the page's static artifact
// relative to the publish root: "blog/<slug>.html" for blog posts,
// "<slug>.html" otherwise.
func (p *Page) OutputPath() string {
	if p.IsBlog() {
		return "blog/" + p.Slug + ".html"
	}
	return p.Slug + ".html"
}

// URLPath returns the site-relative URL of the published page.
func (p *Page) URLPath() string {
	return "/" + p.OutputPath()
}

// PublishedTime parses PublishedDate. The second return value is false when
// the date is unset or not in a recognized layout.
func (p *Page) PublishedTime() (time.Time, bool) {
	return ParseDate(p.PublishedDate)
}

// EffectiveTime is the time a post sorts by: its published date when that
// parses, otherwise its creation time.
func (p *Page) EffectiveTime() time.Time {
	if t, ok := p.PublishedTime(); ok {
		return t
	}
	return p.CreatedAt
}

// SortNewestFirst orders pages by EffectiveTime descending, breaking ties by
// id descending.
func SortNewestFirst(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		ti, tj := pages[i].EffectiveTime(), pages[j].EffectiveTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return pages[i].ID > pages[j].ID
	})
}

// dateLayouts lists the layouts accepted for operator-entered dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a date string in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
