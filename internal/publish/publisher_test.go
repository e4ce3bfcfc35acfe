// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/service"
	"github.com/olegiv/blockpress/internal/store"
	"github.com/olegiv/blockpress/internal/testutil"
)

type fixture struct {
	db      *sql.DB
	content *service.ContentStore
	pages   *service.PageService
	pub     *Publisher
	root    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)

	content := service.NewContentStore(db)
	require.NoError(t, content.SetSetting(context.Background(), model.SettingKeyBaseURL, "https://x.test"))

	root := filepath.Join(t.TempDir(), "pub")
	pub := New(content, Options{
		Root: root,
		Now:  func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}, testutil.TestLogger())

	return &fixture{
		db:      db,
		content: content,
		pages:   service.NewPageService(db, testutil.TestLogger()),
		pub:     pub,
		root:    root,
	}
}

func (f *fixture) createPage(t *testing.T, in service.PageInput) *model.Page {
	t.Helper()
	page, err := f.pages.Create(context.Background(), in)
	require.NoError(t, err)
	return page
}

func TestPublishWritesPreviewOutput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := f.createPage(t, service.PageInput{Title: "About"})

	html, err := f.pub.Render(ctx, page.ID, true)
	require.NoError(t, err)

	path, err := f.pub.Render(ctx, page.ID, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.root, "about.html"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, html, string(written))

	stored, err := f.content.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, stored.Published)
}

func TestPublishBlogPath(t *testing.T) {
	f := newFixture(t)
	page := f.createPage(t, service.PageInput{Title: "My Post", Type: model.PageTypeBlog})

	path, err := f.pub.Publish(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.root, "blog", "my-post.html"), path)
	assert.FileExists(t, path)
}

func TestPreviewHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := f.createPage(t, service.PageInput{Title: "Draft"})

	first, err := f.pub.Preview(ctx, page.ID)
	require.NoError(t, err)
	second, err := f.pub.Preview(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.NoDirExists(t, f.root)
	stored, err := f.content.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.False(t, stored.Published)
}

func TestPublishOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := f.createPage(t, service.PageInput{Title: "Home"})

	_, err := f.pub.Publish(ctx, page.ID)
	require.NoError(t, err)

	require.NoError(t, f.content.SetSetting(ctx, model.SettingKeyBaseURL, "https://changed.test"))
	path, err := f.pub.Publish(ctx, page.ID)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(written), "https://changed.test/")
	assert.NotContains(t, string(written), "https://x.test/")
}

func TestPublishPageNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.pub.Render(context.Background(), 404, false)
	assert.ErrorIs(t, err, ErrPageNotFound)
	_, err = f.pub.Render(context.Background(), 404, true)
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPublishWriteFailureKeepsFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := f.createPage(t, service.PageInput{Title: "About"})

	// A regular file where the publish root should be makes MkdirAll fail.
	require.NoError(t, os.WriteFile(f.root, []byte("x"), 0o600))

	_, err := f.pub.Publish(ctx, page.ID)
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr), "error %v is not a *WriteError", err)

	stored, err := f.content.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.False(t, stored.Published)
}

func TestRepublishAllIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	good := f.createPage(t, service.PageInput{Title: "Good"})
	require.NoError(t, f.content.SetPublished(ctx, good.ID, true))

	// Slugs are validated on create, so insert an invalid one directly.
	bad, err := store.New(f.db).CreatePage(ctx, store.CreatePageParams{
		Title:     "Bad",
		Slug:      "Bad Slug",
		Type:      model.PageTypePage,
		Published: true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	report, err := f.pub.RepublishAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed())
	require.Error(t, report.Err)

	var writeErr *WriteError
	assert.True(t, errors.As(report.Err, &writeErr))
	assert.FileExists(t, filepath.Join(f.root, "good.html"))

	for _, r := range report.Results {
		if r.PageID == bad.ID {
			assert.NotEmpty(t, r.Error)
		} else {
			assert.Empty(t, r.Error)
		}
	}
}

func TestRepublishDefinition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	published := f.createPage(t, service.PageInput{Title: "Published"})
	require.NoError(t, f.content.SetPublished(ctx, published.ID, true))
	f.createPage(t, service.PageInput{Title: "Draft"})

	instances, err := f.content.ListBlockInstances(ctx, published.ID)
	require.NoError(t, err)

	report, err := f.pub.RepublishDefinition(ctx, instances[0].DefinitionID)
	require.NoError(t, err)
	require.NoError(t, report.Err)
	assert.Equal(t, 1, report.Attempted)
	assert.FileExists(t, filepath.Join(f.root, "published.html"))
	assert.NoFileExists(t, filepath.Join(f.root, "draft.html"))
}

func TestPublishSitemap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	about := f.createPage(t, service.PageInput{Title: "About"})
	post := f.createPage(t, service.PageInput{Title: "Post", Type: model.PageTypeBlog, PublishedDate: "2025-01-02"})
	f.createPage(t, service.PageInput{Title: "Draft"})
	require.NoError(t, f.content.SetPublished(ctx, about.ID, true))
	require.NoError(t, f.content.SetPublished(ctx, post.ID, true))

	result, err := f.pub.PublishSitemap(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.root, SitemapFile), result.Path)
	assert.Equal(t, 2, result.URLs)
	assert.Empty(t, result.Skipped)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	sitemap := string(data)
	assert.Contains(t, sitemap, "<loc>https://x.test/about.html</loc>")
	assert.Contains(t, sitemap, "<loc>https://x.test/blog/post.html</loc>")
	assert.Contains(t, sitemap, "<lastmod>2025-01-02</lastmod>")
	assert.NotContains(t, sitemap, "draft")
	assert.Less(t, strings.Index(sitemap, "about.html"), strings.Index(sitemap, "blog/post.html"))

	robots, err := os.ReadFile(filepath.Join(f.root, RobotsFile))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://x.test/sitemap.xml")
}
