// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the crawler-facing artifacts of the published site:
// sitemap.xml and robots.txt.
package seo

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/util"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the sitemap.
const (
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Priorities by page type.
const (
	PriorityPage = "1.0"
	PriorityBlog = "0.8"
)

// lastModLayout is the W3C date layout used for lastmod.
const lastModLayout = "2006-01-02"

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// entry is a URL with its sort keys.
type entry struct {
	url  SitemapURL
	blog bool
	date time.Time
	id   int64
}

// SitemapBuilder builds sitemap XML from published pages.
type SitemapBuilder struct {
	siteURL string
	now     time.Time
	entries []entry
	skipped []string
}

// NewSitemapBuilder creates a new sitemap builder. now is used for pages
// without a usable date.
func NewSitemapBuilder(siteURL string, now time.Time) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     now,
	}
}

// AddPage adds a published page. Pages with an invalid slug are skipped
// and reported by Skipped.
func (b *SitemapBuilder) AddPage(p model.Page) {
	if !util.IsValidSlug(p.Slug) {
		b.skipped = append(b.skipped, p.Slug)
		return
	}

	date := b.effectiveDate(p)
	url := SitemapURL{
		Loc:        b.siteURL + p.URLPath(),
		LastMod:    date.Format(lastModLayout),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   PriorityPage,
	}
	if p.IsBlog() {
		url.ChangeFreq = ChangeFreqWeekly
		url.Priority = PriorityBlog
	}
	b.entries = append(b.entries, entry{url: url, blog: p.IsBlog(), date: date, id: p.ID})
}

// AddPages adds multiple pages to the sitemap.
func (b *SitemapBuilder) AddPages(pages []model.Page) {
	for _, p := range pages {
		b.AddPage(p)
	}
}

// Skipped returns the slugs of pages that were left out.
func (b *SitemapBuilder) Skipped() []string {
	return b.skipped
}

// effectiveDate is published_date when set, else updated_at. A published
// date that cannot be parsed, or a missing updated_at, yields now.
func (b *SitemapBuilder) effectiveDate(p model.Page) time.Time {
	if strings.TrimSpace(p.PublishedDate) != "" {
		if t, ok := p.PublishedTime(); ok {
			return t
		}
		return b.now
	}
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt
	}
	return b.now
}

// URLs returns the entries in sitemap order: regular pages before blog
// posts, each group newest first.
func (b *SitemapBuilder) URLs() []SitemapURL {
	sorted := make([]entry, len(b.entries))
	copy(sorted, b.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].blog != sorted[j].blog {
			return !sorted[i].blog
		}
		if !sorted[i].date.Equal(sorted[j].date) {
			return sorted[i].date.After(sorted[j].date)
		}
		return sorted[i].id > sorted[j].id
	})

	urls := make([]SitemapURL, len(sorted))
	for i, e := range sorted {
		urls[i] = e.url
	}
	return urls
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.URLs(),
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
