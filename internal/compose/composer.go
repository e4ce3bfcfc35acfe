// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/blockpress/internal/model"
)

// Composition is the result of composing a page.
type Composition struct {
	Page *model.Page
	HTML string
}

// Composer assembles a page's HTML from its block instances.
type Composer struct {
	src      Source
	pipeline Pipeline
	logger   *slog.Logger
}

// NewComposer creates a composer with the default pipeline.
func NewComposer(src Source, settings Settings, logger *slog.Logger) *Composer {
	return NewComposerWithPipeline(src, DefaultPipeline(src, settings), logger)
}

// NewComposerWithPipeline creates a composer with a custom pipeline.
func NewComposerWithPipeline(src Source, pipeline Pipeline, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{src: src, pipeline: pipeline, logger: logger}
}

// Pipeline returns the composer's stage list.
func (c *Composer) Pipeline() Pipeline {
	return c.pipeline
}

// Compose resolves every block instance of a page in sort order and
// concatenates the results. It never writes anything. Returns
// ErrPageNotFound when the page does not exist.
func (c *Composer) Compose(ctx context.Context, pageID int64) (*Composition, error) {
	page, err := c.src.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("loading page %d: %w", pageID, err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}

	instances, err := c.src.ListBlockInstances(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing blocks of page %d: %w", pageID, err)
	}

	var b strings.Builder
	for i := range instances {
		inst := &instances[i]
		content := inst.Content()
		if !hasTags(content) {
			b.WriteString(content)
			continue
		}

		params, err := c.src.GetParameters(ctx, inst.ID)
		if err != nil {
			return nil, fmt.Errorf("loading parameters of block %d: %w", inst.ID, err)
		}

		out, err := c.pipeline.Run(ctx, &Env{Page: page, Params: params}, content)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", inst.ID, inst.DefinitionSlug, err)
		}
		b.WriteString(out)
	}

	c.logger.Debug("page composed",
		"page_id", page.ID,
		"slug", page.Slug,
		"blocks", len(instances),
	)

	return &Composition{Page: page, HTML: b.String()}, nil
}
