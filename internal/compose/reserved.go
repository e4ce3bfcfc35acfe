// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/olegiv/blockpress/internal/model"
)

// Reserved tokens.
const (
	TokenPageTitle          = "page:title"
	TokenPageExcerpt        = "page:excerpt"
	TokenPageFeaturedPNG    = "page:featured:png"
	TokenPageFeaturedWebP   = "page:featured:webp"
	TokenConfigBaseURL      = "config:base_url"
	TokenBlogCategories     = "blog:categories"
	TokenBlogLatest         = "blog:latest"
	tokenBlogCategoryPrefix = "blog:category:"
)

// ReservedResolver resolves page:, config: and blog: tokens against the
// current page, the content store and the settings provider.
type ReservedResolver struct {
	src      Source
	settings Settings
}

// NewReservedResolver creates a reserved token resolver.
func NewReservedResolver(src Source, settings Settings) *ReservedResolver {
	return &ReservedResolver{src: src, settings: settings}
}

// isReservedToken reports whether key is handled by the resolver.
func isReservedToken(key string) bool {
	switch key {
	case TokenPageTitle, TokenPageExcerpt, TokenPageFeaturedPNG, TokenPageFeaturedWebP,
		TokenConfigBaseURL, TokenBlogCategories, TokenBlogLatest:
		return true
	}
	return strings.HasPrefix(key, tokenBlogCategoryPrefix)
}

// resolvePass holds per-call state so each token and setting is looked up
// at most once per fragment.
type resolvePass struct {
	r       *ReservedResolver
	page    *model.Page
	baseURL *string
}

// Resolve replaces every reserved token present in content. Only tokens
// that actually occur are resolved, each once; unknown tokens are left
// verbatim. Store and settings errors are returned.
func (r *ReservedResolver) Resolve(ctx context.Context, page *model.Page, content string) (string, error) {
	if !hasTags(content) {
		return content, nil
	}

	segs := scan(content)
	values := make(map[string]string)
	pass := &resolvePass{r: r, page: page}

	for _, seg := range segs {
		if !seg.tag {
			continue
		}
		key := strings.TrimSpace(seg.inner)
		if !isReservedToken(key) {
			continue
		}
		if _, done := values[key]; done {
			continue
		}
		value, err := pass.resolve(ctx, key)
		if err != nil {
			return "", fmt.Errorf("resolving {{%s}}: %w", key, err)
		}
		values[key] = value
	}

	if len(values) == 0 {
		return content, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	for _, seg := range segs {
		if seg.tag {
			if value, ok := values[strings.TrimSpace(seg.inner)]; ok {
				b.WriteString(value)
				continue
			}
		}
		b.WriteString(seg.raw)
	}
	return b.String(), nil
}

func (p *resolvePass) resolve(ctx context.Context, key string) (string, error) {
	switch key {
	case TokenPageTitle:
		return p.page.Title, nil
	case TokenPageExcerpt:
		return p.page.Excerpt, nil
	case TokenPageFeaturedPNG:
		return p.featuredURL(ctx, p.page.FeaturedPNG)
	case TokenPageFeaturedWebP:
		return p.featuredURL(ctx, p.page.FeaturedWebP)
	case TokenConfigBaseURL:
		return p.getBaseURL(ctx)
	case TokenBlogCategories:
		return p.blogCategories(ctx)
	case TokenBlogLatest:
		return p.blogLatest(ctx)
	}
	return p.blogCategory(ctx, strings.TrimPrefix(key, tokenBlogCategoryPrefix))
}

func (p *resolvePass) getBaseURL(ctx context.Context) (string, error) {
	if p.baseURL != nil {
		return *p.baseURL, nil
	}
	value, ok, err := p.r.settings.GetSetting(ctx, model.SettingKeyBaseURL)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		value = model.DefaultBaseURL
	}
	p.baseURL = &value
	return value, nil
}

func (p *resolvePass) featuredURL(ctx context.Context, stored string) (string, error) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return "", nil
	}
	if isAbsoluteURL(stored) {
		return stored, nil
	}
	base, err := p.getBaseURL(ctx)
	if err != nil {
		return "", err
	}
	return joinURL(base, stored), nil
}

func (p *resolvePass) blogCategories(ctx context.Context) (string, error) {
	categories, err := p.r.src.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	base, err := p.getBaseURL(ctx)
	if err != nil {
		return "", err
	}

	target := joinURL(base, "/blog/index.html")
	container, err := p.r.src.GetBlogContainer(ctx)
	if err != nil {
		return "", err
	}
	if container != nil {
		target = joinURL(base, container.URLPath())
	}

	var b strings.Builder
	b.WriteString(`<ul class="blog-categories">`)
	for _, c := range categories {
		fmt.Fprintf(&b, `<li><a href="%s?category=%s">%s</a></li>`,
			html.EscapeString(target),
			url.QueryEscape(c.Slug),
			html.EscapeString(c.Title),
		)
	}
	b.WriteString(`</ul>`)
	return b.String(), nil
}

func (p *resolvePass) blogCategory(ctx context.Context, arg string) (string, error) {
	id, ok := parseCategoryID(arg)
	if !ok {
		return "", nil
	}
	pages, err := p.r.src.ListPagesInCategory(ctx, id)
	if err != nil {
		return "", err
	}
	base, err := p.getBaseURL(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<ul class="blog-category">`)
	for _, page := range pages {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`,
			html.EscapeString(joinURL(base, page.URLPath())),
			html.EscapeString(page.Title),
		)
	}
	b.WriteString(`</ul>`)
	return b.String(), nil
}

func (p *resolvePass) blogLatest(ctx context.Context) (string, error) {
	posts, err := p.r.src.ListPublishedBlogPages(ctx)
	if err != nil {
		return "", err
	}
	base, err := p.getBaseURL(ctx)
	if err != nil {
		return "", err
	}

	tmplSrc, ok, err := p.r.settings.GetSetting(ctx, model.SettingKeyBlogLatestTemplate)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(tmplSrc) == "" {
		tmplSrc = model.DefaultBlogLatestTemplate
	}

	perPageRaw, ok, err := p.r.settings.GetSetting(ctx, model.SettingKeyArticlesPerPage)
	if err != nil {
		return "", err
	}
	perPage := model.DefaultArticlesPerPage
	if ok {
		perPage = parsePageSize(perPageRaw)
	}

	return RenderLatestListing(posts, ParseItemTemplate(tmplSrc), perPage, base), nil
}

// parseCategoryID accepts "N" or "[N]" with a positive integer N.
func parseCategoryID(arg string) (int64, bool) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "[") || strings.HasSuffix(arg, "]") {
		if !strings.HasPrefix(arg, "[") || !strings.HasSuffix(arg, "]") {
			return 0, false
		}
		arg = strings.TrimSpace(arg[1 : len(arg)-1])
	}
	if arg == "" {
		return 0, false
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePageSize parses the items-per-page setting, clamping to at least 1.
// Non-numeric values fall back to the default.
func parsePageSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return model.DefaultArticlesPerPage
	}
	if n < 1 {
		return 1
	}
	return n
}

// isAbsoluteURL reports whether s starts with a URL scheme. Schemes without
// an authority, such as data: and mailto:, count.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}

// joinURL joins a base URL and a path with exactly one slash.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
