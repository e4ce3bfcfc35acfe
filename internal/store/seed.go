// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/olegiv/blockpress/internal/model"
)

// defaultSettings are inserted when missing. Existing values are never overwritten.
var defaultSettings = []UpsertSettingParams{
	{Key: model.SettingKeySiteName, Value: "Blockpress", Description: "Site name"},
	{Key: model.SettingKeySiteDescription, Value: "Pages assembled from reusable blocks", Description: "Site description"},
	{Key: model.SettingKeyBaseURL, Value: model.DefaultBaseURL, Description: "Base URL used by {{config:base_url}} and absolute image URLs"},
	{Key: model.SettingKeyBlogLatestTemplate, Value: model.DefaultBlogLatestTemplate, Description: "Item template for {{blog:latest}}; the ul wrapper is added automatically"},
	{Key: model.SettingKeyArticlesPerPage, Value: strconv.Itoa(model.DefaultArticlesPerPage), Description: "Items per page in {{blog:latest}}"},
}

// defaultBlocks are the block definitions attached to new pages.
var defaultBlocks = []CreateBlockDefinitionParams{
	{Title: "Base Header", Slug: "base_header", Category: model.BlockCategorySystem, SortOrder: 1,
		Content: "<!DOCTYPE html>\n<html lang=\"en\">\n<head>"},
	{Title: "Meta Tags", Slug: "meta", Category: model.BlockCategorySystem, SortOrder: 2,
		Content: "    <meta charset=\"UTF-8\">\n    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n    <title>{{page:title}}</title>\n{{if page:excerpt}}    <meta name=\"description\" content=\"{{page:excerpt}}\">\n{{/if}}"},
	{Title: "Header Close", Slug: "header_close", Category: model.BlockCategorySystem, SortOrder: 3,
		Content: "    <link href=\"https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css\" rel=\"stylesheet\">\n</head>\n<body>"},
	{Title: "Hero Section", Slug: "hero", Category: model.BlockCategoryContent, SortOrder: 4,
		DefaultParameters: `{"heading":"Welcome to Our Site","lead":"Discover amazing content and features"}`,
		Content:           "    <section class=\"hero bg-primary text-white py-5\">\n        <div class=\"container text-center\">\n            <h1 class=\"display-4\">{{ heading }}</h1>\n            <p class=\"lead\">{{ lead }}</p>\n        </div>\n    </section>"},
	{Title: "Navigation Menu", Slug: "menu", Category: model.BlockCategoryContent, SortOrder: 5,
		Content: "    <nav class=\"navbar navbar-expand-lg navbar-dark bg-dark\">\n        <div class=\"container\">\n            <a class=\"navbar-brand\" href=\"{{config:base_url}}/\">Home</a>\n        </div>\n    </nav>"},
	{Title: "Content Section", Slug: "content", Category: model.BlockCategoryContent, SortOrder: 6,
		Content: "    <section id=\"content\" class=\"py-5\">\n        <div class=\"container\">\n            <h2>{{page:title}}</h2>\n{{if page:featured}}            <img class=\"img-fluid\" src=\"{{page:featured:png}}\" alt=\"{{page:title}}\">\n{{/if}}        </div>\n    </section>"},
	{Title: "Footer", Slug: "footer", Category: model.BlockCategoryContent, SortOrder: 7,
		DefaultParameters: `{"copyright":"All rights reserved."}`,
		Content:           "    <footer class=\"bg-dark text-white py-4 mt-5\">\n        <div class=\"container\"><p>{{ copyright }}</p></div>\n    </footer>"},
	{Title: "Body Close", Slug: "body_close", Category: model.BlockCategorySystem, SortOrder: 8,
		Content: "</body>\n</html>"},
}

// Seed inserts the default settings and block definitions. It is idempotent.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now()

	for _, s := range defaultSettings {
		s.UpdatedAt = now
		if err := queries.InsertSettingIfMissing(ctx, s); err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, err)
		}
	}

	for _, b := range defaultBlocks {
		b.IsDefault = true
		if b.DefaultParameters == "" {
			b.DefaultParameters = "{}"
		}
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := queries.InsertBlockDefinitionIfMissing(ctx, b); err != nil {
			return fmt.Errorf("seeding block %s: %w", b.Slug, err)
		}
	}

	slog.Info("seeded default data",
		"settings", len(defaultSettings),
		"blocks", len(defaultBlocks),
	)

	return nil
}
