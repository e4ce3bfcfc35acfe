// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"fmt"
	"html"
	"strings"

	"github.com/olegiv/blockpress/internal/model"
)

// RenderLatestListing renders the paginated blog:latest listing. posts must
// already be ordered newest first. Items past the first page are hidden by
// an nth-child rule until the inline script takes over: it removes that rule
// and then shows one page at a time through inline display values.
func RenderLatestListing(posts []model.Page, tmpl *ItemTemplate, perPage int, baseURL string) string {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (len(posts) + perPage - 1) / perPage

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="blog-latest" data-per-page="%d" data-total-pages="%d">`, perPage, totalPages)
	b.WriteString(`<ul class="blog-latest-list">`)
	for i := range posts {
		b.WriteString(tmpl.Render(listingFields(&posts[i], baseURL)))
	}
	b.WriteString(`</ul>`)

	if totalPages > 1 {
		fmt.Fprintf(&b,
			`<style>.blog-latest[data-per-page="%d"] .blog-latest-list > li:nth-child(n+%d){display:none}</style>`,
			perPage, perPage+1)
		writePaginationControls(&b, totalPages)
		b.WriteString(paginationScript)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func writePaginationControls(b *strings.Builder, totalPages int) {
	b.WriteString(`<nav class="blog-latest-pagination">`)
	b.WriteString(`<button type="button" class="blog-latest-prev" disabled>Previous</button>`)
	for n := 1; n <= totalPages; n++ {
		class := "blog-latest-page"
		if n == 1 {
			class += " active"
		}
		fmt.Fprintf(b, `<button type="button" class="%s" data-page="%d">%d</button>`, class, n, n)
	}
	b.WriteString(`<button type="button" class="blog-latest-next">Next</button>`)
	b.WriteString(`</nav>`)
}

const paginationScript = `<script>(function(){` +
	`var root=document.currentScript.parentElement;` +
	`var per=parseInt(root.getAttribute("data-per-page"),10);` +
	`var total=parseInt(root.getAttribute("data-total-pages"),10);` +
	`var items=root.querySelectorAll(".blog-latest-list > li");` +
	`var pages=root.querySelectorAll(".blog-latest-page");` +
	`var prev=root.querySelector(".blog-latest-prev");` +
	`var next=root.querySelector(".blog-latest-next");` +
	`var current=1;` +
	`var initial=root.querySelector("style");if(initial){initial.remove();}` +
	`function show(p){` +
	`current=p;` +
	`for(var i=0;i<items.length;i++){items[i].style.display=(i>=(p-1)*per&&i<p*per)?"":"none";}` +
	`for(var j=0;j<pages.length;j++){pages[j].classList.toggle("active",j===p-1);}` +
	`prev.disabled=p<=1;next.disabled=p>=total;}` +
	`for(var k=0;k<pages.length;k++){pages[k].addEventListener("click",function(e){show(parseInt(e.currentTarget.getAttribute("data-page"),10));});}` +
	`prev.addEventListener("click",function(){if(current>1){show(current-1);}});` +
	`next.addEventListener("click",function(){if(current<total){show(current+1);}});` +
	`show(1);` +
	`})();</script>`

// listingFields builds the item template values for a post. Text fields are
// HTML-escaped; image and link fields are absolute URLs.
func listingFields(p *model.Page, baseURL string) map[string]string {
	href := joinURL(baseURL, p.URLPath())
	return map[string]string{
		FieldTitle:         html.EscapeString(p.Title),
		FieldSlug:          html.EscapeString(p.Slug),
		FieldHref:          html.EscapeString(href),
		FieldExcerpt:       html.EscapeString(p.Excerpt),
		FieldAuthor:        html.EscapeString(p.Author),
		FieldPublishedDate: html.EscapeString(displayDate(p.PublishedDate)),
		FieldFeaturedImage: featuredImageTag(p, baseURL),
		FieldMetadata:      metadataLine(p),
		FieldBaseURL:       html.EscapeString(baseURL),
	}
}

// featuredImageTag renders an <img> for the post's featured image, preferring
// the PNG variant. Returns "" when no image is set.
func featuredImageTag(p *model.Page, baseURL string) string {
	src := strings.TrimSpace(p.FeaturedPNG)
	if src == "" {
		src = strings.TrimSpace(p.FeaturedWebP)
	}
	if src == "" {
		return ""
	}
	if !isAbsoluteURL(src) {
		src = joinURL(baseURL, src)
	}
	return fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy">`,
		html.EscapeString(src), html.EscapeString(p.Title))
}

func metadataLine(p *model.Page) string {
	var parts []string
	if author := strings.TrimSpace(p.Author); author != "" {
		parts = append(parts, "By "+html.EscapeString(author))
	}
	if date := displayDate(p.PublishedDate); date != "" {
		parts = append(parts, html.EscapeString(date))
	}
	if len(parts) == 0 {
		return ""
	}
	return `<div class="blog-meta">` + strings.Join(parts, " &middot; ") + `</div>`
}

// displayDate formats a published date as YYYY-MM-DD, or returns the raw
// trimmed value when it is not a recognized layout.
func displayDate(raw string) string {
	if t, ok := model.ParseDate(raw); ok {
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(raw)
}
