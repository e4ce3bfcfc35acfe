// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package publish turns composed pages into static artifacts under the
// publish root and keeps the sitemap and robots.txt alongside them.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/olegiv/blockpress/internal/compose"
	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/seo"
	"github.com/olegiv/blockpress/internal/util"
)

// Artifact names written at the publish root.
const (
	SitemapFile = "sitemap.xml"
	RobotsFile  = "robots.txt"
)

// Store is the content access the publisher needs beyond composition.
type Store interface {
	compose.Source
	compose.Settings
	ListPublishedPages(ctx context.Context) ([]model.Page, error)
	ListPublishedPageIDsByDefinition(ctx context.Context, definitionID int64) ([]int64, error)
	SetPublished(ctx context.Context, pageID int64, published bool) error
}

// Options configures a Publisher.
type Options struct {
	// Root is the publish directory.
	Root string
	// DisallowCrawlers writes a robots.txt that blocks all crawlers.
	DisallowCrawlers bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Publisher renders pages for preview or writes them to the publish root.
type Publisher struct {
	store    Store
	composer *compose.Composer
	opts     Options
	logger   *slog.Logger
}

// New creates a Publisher using the default composition pipeline.
func New(store Store, opts Options, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return NewWithComposer(store, compose.NewComposer(store, store, logger), opts, logger)
}

// NewWithComposer creates a Publisher with a custom composer.
func NewWithComposer(store Store, composer *compose.Composer, opts Options, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{store: store, composer: composer, opts: opts, logger: logger}
}

// Root returns the publish directory.
func (p *Publisher) Root() string {
	return p.opts.Root
}

// Render composes a page. With preview set it returns the HTML and has no
// side effects; otherwise it writes the artifact, marks the page published
// and returns the written path.
func (p *Publisher) Render(ctx context.Context, pageID int64, preview bool) (string, error) {
	if preview {
		return p.Preview(ctx, pageID)
	}
	return p.Publish(ctx, pageID)
}

// Preview returns the composed HTML of a page.
func (p *Publisher) Preview(ctx context.Context, pageID int64) (string, error) {
	comp, err := p.composer.Compose(ctx, pageID)
	if err != nil {
		return "", err
	}
	return comp.HTML, nil
}

// Publish composes a page, writes it to blog/<slug>.html or <slug>.html
// under the root and sets the published flag. The flag is only set after
// the write succeeded.
func (p *Publisher) Publish(ctx context.Context, pageID int64) (string, error) {
	comp, err := p.composer.Compose(ctx, pageID)
	if err != nil {
		return "", err
	}

	path, err := p.artifactPath(comp.Page)
	if err != nil {
		return "", err
	}
	if err := p.writeFile(path, comp.HTML); err != nil {
		return "", err
	}

	if err := p.store.SetPublished(ctx, pageID, true); err != nil {
		return "", fmt.Errorf("marking page %d published: %w", pageID, err)
	}

	p.logger.Info("page published", "page_id", pageID, "slug", comp.Page.Slug, "path", path)
	return path, nil
}

// artifactPath resolves the output file of a page inside the root.
func (p *Publisher) artifactPath(page *model.Page) (string, error) {
	rel := page.OutputPath()
	if !util.IsValidSlug(page.Slug) {
		return "", &WriteError{Path: rel, Err: fmt.Errorf("invalid slug %q", page.Slug)}
	}
	path, err := util.SafeJoinPath(p.opts.Root, filepath.FromSlash(rel))
	if err != nil {
		return "", &WriteError{Path: rel, Err: err}
	}
	return path, nil
}

// writeFile atomically replaces path with content, creating parent
// directories as needed.
func (p *Publisher) writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// PageResult is the outcome of republishing one page.
type PageResult struct {
	PageID int64  `json:"page_id"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report summarizes a republish run.
type Report struct {
	RunID     string       `json:"run_id"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Results   []PageResult `json:"results"`
	// Err joins every per-page error; nil when all pages succeeded.
	Err error `json:"-"`
}

// Failed returns the number of pages that could not be published.
func (r *Report) Failed() int {
	return r.Attempted - r.Succeeded
}

// RepublishAll republishes every published page. Pages are processed
// sequentially and a failure does not stop the run. Only a failure to list
// pages is returned as error; per-page failures are in the report.
func (p *Publisher) RepublishAll(ctx context.Context) (*Report, error) {
	pages, err := p.store.ListPublishedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published pages: %w", err)
	}
	ids := make([]int64, len(pages))
	for i, page := range pages {
		ids[i] = page.ID
	}
	return p.republish(ctx, ids), nil
}

// RepublishDefinition republishes the published pages that contain an
// instance of the given block definition.
func (p *Publisher) RepublishDefinition(ctx context.Context, definitionID int64) (*Report, error) {
	ids, err := p.store.ListPublishedPageIDsByDefinition(ctx, definitionID)
	if err != nil {
		return nil, fmt.Errorf("listing pages using block %d: %w", definitionID, err)
	}
	return p.republish(ctx, ids), nil
}

func (p *Publisher) republish(ctx context.Context, ids []int64) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]PageResult, 0, len(ids)),
	}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("republish started", "pages", len(ids))

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		report.Attempted++
		path, err := p.Publish(ctx, id)
		if err != nil {
			logger.Error("republish failed", "page_id", id, "error", err)
			errs = append(errs, fmt.Errorf("page %d: %w", id, err))
			report.Results = append(report.Results, PageResult{PageID: id, Error: err.Error()})
			continue
		}
		report.Succeeded++
		report.Results = append(report.Results, PageResult{PageID: id, Path: path})
	}

	report.Err = errors.Join(errs...)
	logger.Info("republish finished",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed(),
	)
	return report
}

// SitemapResult describes a written sitemap.
type SitemapResult struct {
	Path    string   `json:"path"`
	URLs    int      `json:"urls"`
	Skipped []string `json:"skipped"`
}

// PublishSitemap writes sitemap.xml and robots.txt at the publish root,
// fully replacing previous versions. Pages with an invalid slug are left
// out and listed in the result.
func (p *Publisher) PublishSitemap(ctx context.Context) (*SitemapResult, error) {
	pages, err := p.store.ListPublishedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published pages: %w", err)
	}
	baseURL, err := p.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	builder := seo.NewSitemapBuilder(baseURL, p.opts.Now())
	builder.AddPages(pages)
	data, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building sitemap: %w", err)
	}

	path := filepath.Join(p.opts.Root, SitemapFile)
	if err := p.writeFile(path, string(data)); err != nil {
		return nil, err
	}

	robots := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     baseURL,
		DisallowAll: p.opts.DisallowCrawlers,
	})
	if err := p.writeFile(filepath.Join(p.opts.Root, RobotsFile), robots); err != nil {
		return nil, err
	}

	skipped := builder.Skipped()
	if len(skipped) > 0 {
		p.logger.Warn("sitemap skipped pages with invalid slugs", "skipped", strings.Join(skipped, ","))
	}
	p.logger.Info("sitemap published", "path", path, "urls", len(pages)-len(skipped))

	if skipped == nil {
		skipped = []string{}
	}
	return &SitemapResult{Path: path, URLs: len(pages) - len(skipped), Skipped: skipped}, nil
}

func (p *Publisher) baseURL(ctx context.Context) (string, error) {
	value, ok, err := p.store.GetSetting(ctx, model.SettingKeyBaseURL)
	if err != nil {
		return "", fmt.Errorf("reading base url: %w", err)
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return model.DefaultBaseURL, nil
	}
	return value, nil
}
