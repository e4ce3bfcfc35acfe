// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/blockpress/internal/model"
)

func TestReservedPageTokens(t *testing.T) {
	r := NewReservedResolver(newFakeSource(), newFakeSettings(nil))
	page := &model.Page{Title: "About", Excerpt: "Short"}

	got, err := r.Resolve(context.Background(), page, "<h1>{{page:title}}</h1><p>{{ page:excerpt }}</p>")
	require.NoError(t, err)
	assert.Equal(t, "<h1>About</h1><p>Short</p>", got)
}

func TestReservedFeaturedURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		stored  string
		want    string
	}{
		{"relative with slash", "https://x.test", "/img/a.png", "https://x.test/img/a.png"},
		{"base with trailing slash", "https://x.test/", "img/a.png", "https://x.test/img/a.png"},
		{"absolute kept", "https://x.test", "https://cdn.test/a.png", "https://cdn.test/a.png"},
		{"data uri kept", "https://x.test", "data:image/webp;base64,UklGRg==", "data:image/webp;base64,UklGRg=="},
		{"unset", "https://x.test", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newFakeSettings(map[string]string{model.SettingKeyBaseURL: tt.baseURL})
			r := NewReservedResolver(newFakeSource(), settings)
			page := &model.Page{FeaturedPNG: tt.stored, FeaturedWebP: tt.stored}

			got, err := r.Resolve(context.Background(), page, "{{page:featured:png}}|{{page:featured:webp}}")
			require.NoError(t, err)
			assert.Equal(t, tt.want+"|"+tt.want, got)
		})
	}
}

func TestReservedBaseURLDefault(t *testing.T) {
	for _, settings := range []*fakeSettings{
		newFakeSettings(nil),
		newFakeSettings(map[string]string{model.SettingKeyBaseURL: "  "}),
	} {
		r := NewReservedResolver(newFakeSource(), settings)
		got, err := r.Resolve(context.Background(), &model.Page{}, "{{config:base_url}}")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultBaseURL, got)
	}
}

func TestReservedBaseURLLookedUpOnce(t *testing.T) {
	settings := newFakeSettings(map[string]string{model.SettingKeyBaseURL: "https://x.test"})
	r := NewReservedResolver(newFakeSource(), settings)
	page := &model.Page{FeaturedPNG: "a.png", FeaturedWebP: "a.webp"}

	_, err := r.Resolve(context.Background(), page,
		"{{config:base_url}} {{page:featured:png}} {{page:featured:webp}} {{config:base_url}}")
	require.NoError(t, err)
	assert.Equal(t, 1, settings.callCount(model.SettingKeyBaseURL))
}

func TestReservedNoTokensNoLookups(t *testing.T) {
	src := newFakeSource()
	settings := newFakeSettings(nil)
	r := NewReservedResolver(src, settings)

	got, err := r.Resolve(context.Background(), &model.Page{}, "<p>{{ name }} and {{if x}}</p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>{{ name }} and {{if x}}</p>", got)
	assert.Zero(t, src.totalCalls())
	assert.Zero(t, settings.totalCalls())
}

func TestReservedUnknownTokenVerbatim(t *testing.T) {
	r := NewReservedResolver(newFakeSource(), newFakeSettings(nil))
	got, err := r.Resolve(context.Background(), &model.Page{Title: "T"}, "{{page:author}} {{blog:archive}} {{page:title}}")
	require.NoError(t, err)
	assert.Equal(t, "{{page:author}} {{blog:archive}} T", got)
}

func TestReservedBlogCategories(t *testing.T) {
	src := newFakeSource()
	src.categories = []model.Category{
		{ID: 1, Title: "News & Updates", Slug: "news"},
		{ID: 2, Title: "Go", Slug: "go lang"},
	}
	settings := newFakeSettings(map[string]string{model.SettingKeyBaseURL: "https://x.test"})
	r := NewReservedResolver(src, settings)

	got, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:categories}}")
	require.NoError(t, err)
	want := `<ul class="blog-categories">` +
		`<li><a href="https://x.test/blog/index.html?category=news">News &amp; Updates</a></li>` +
		`<li><a href="https://x.test/blog/index.html?category=go+lang">Go</a></li>` +
		`</ul>`
	assert.Equal(t, want, got)

	src.container = &model.Page{ID: 9, Slug: "journal", Type: model.PageTypePage, IsBlogContainer: true}
	got, err = r.Resolve(context.Background(), &model.Page{}, "{{blog:categories}}")
	require.NoError(t, err)
	assert.Contains(t, got, `href="https://x.test/journal.html?category=news"`)
}

func TestReservedBlogCategoriesEmpty(t *testing.T) {
	r := NewReservedResolver(newFakeSource(), newFakeSettings(nil))
	got, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:categories}}")
	require.NoError(t, err)
	assert.Equal(t, `<ul class="blog-categories"></ul>`, got)
}

func TestReservedBlogCategory(t *testing.T) {
	src := newFakeSource()
	src.inCategory[2] = []model.Page{
		{ID: 5, Title: "Newer", Slug: "newer", Type: model.PageTypeBlog},
		{ID: 4, Title: "Older", Slug: "older", Type: model.PageTypeBlog},
	}
	settings := newFakeSettings(map[string]string{model.SettingKeyBaseURL: "https://x.test"})
	r := NewReservedResolver(src, settings)

	want := `<ul class="blog-category">` +
		`<li><a href="https://x.test/blog/newer.html">Newer</a></li>` +
		`<li><a href="https://x.test/blog/older.html">Older</a></li>` +
		`</ul>`

	for _, content := range []string{"{{blog:category:[2]}}", "{{blog:category:2}}"} {
		got, err := r.Resolve(context.Background(), &model.Page{}, content)
		require.NoError(t, err)
		assert.Equal(t, want, got, content)
	}

	for _, content := range []string{"{{blog:category:x}}", "{{blog:category:[]}}", "{{blog:category:[3}}", "{{blog:category:-1}}"} {
		got, err := r.Resolve(context.Background(), &model.Page{}, content)
		require.NoError(t, err)
		assert.Empty(t, got, content)
	}
}

func TestReservedBlogLatest(t *testing.T) {
	src := newFakeSource()
	src.blog = makePosts(3)
	settings := newFakeSettings(map[string]string{
		model.SettingKeyBaseURL:            "https://x.test",
		model.SettingKeyBlogLatestTemplate: `<li><a href="{{ href }}">{title}</a></li>`,
		model.SettingKeyArticlesPerPage:    "2",
	})
	r := NewReservedResolver(src, settings)

	got, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:latest}}")
	require.NoError(t, err)
	assert.Contains(t, got, `<li><a href="https://x.test/blog/post-1.html">Post 1</a></li>`)
	assert.Contains(t, got, `data-per-page="2"`)
	assert.Contains(t, got, `data-total-pages="2"`)
	assert.Equal(t, 1, src.callCount("ListPublishedBlogPages"))
}

func TestReservedBlogLatestDefaults(t *testing.T) {
	src := newFakeSource()
	src.blog = makePosts(1)
	r := NewReservedResolver(src, newFakeSettings(map[string]string{model.SettingKeyArticlesPerPage: "abc"}))

	got, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:latest}}")
	require.NoError(t, err)
	assert.Contains(t, got, `class="blog-latest-item"`)
	assert.Contains(t, got, `data-per-page="20"`)
	assert.Contains(t, got, model.DefaultBaseURL+"/blog/post-1.html")
}

func TestReservedRepeatedTokenResolvedOnce(t *testing.T) {
	src := newFakeSource()
	r := NewReservedResolver(src, newFakeSettings(nil))

	got, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:latest}}{{blog:latest}}")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(got, `class="blog-latest"`))
	assert.Equal(t, 1, src.callCount("ListPublishedBlogPages"))
}

func TestReservedStoreErrorPropagates(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("db down")
	r := NewReservedResolver(src, newFakeSettings(nil))

	_, err := r.Resolve(context.Background(), &model.Page{}, "{{blog:categories}}")
	require.Error(t, err)
	assert.ErrorIs(t, err, src.err)
}

func TestParsePageSize(t *testing.T) {
	tests := map[string]int{
		"10":  10,
		" 5 ": 5,
		"0":   1,
		"-3":  1,
		"x":   model.DefaultArticlesPerPage,
		"":    model.DefaultArticlesPerPage,
	}
	for in, want := range tests {
		if got := parsePageSize(in); got != want {
			t.Errorf("parsePageSize(%q) = %d, want %d", in, got, want)
		}
	}
}
