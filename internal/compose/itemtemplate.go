// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import "strings"

// Listing item fields available to the blog_latest_template setting.
const (
	FieldTitle         = "title"
	FieldSlug          = "slug"
	FieldHref          = "href"
	FieldExcerpt       = "excerpt"
	FieldAuthor        = "author"
	FieldPublishedDate = "published_date"
	FieldFeaturedImage = "featured_image"
	FieldMetadata      = "metadata"
	FieldBaseURL       = "base_url"
)

var itemFields = map[string]bool{
	FieldTitle:         true,
	FieldSlug:          true,
	FieldHref:          true,
	FieldExcerpt:       true,
	FieldAuthor:        true,
	FieldPublishedDate: true,
	FieldFeaturedImage: true,
	FieldMetadata:      true,
	FieldBaseURL:       true,
}

// itemPart is either literal text or a field reference.
type itemPart struct {
	text  string
	field string
}

// ItemTemplate is a parsed listing item template. Placeholders may be
// written as {{ name }}, {{name}} or {name}; unknown names stay literal.
type ItemTemplate struct {
	parts []itemPart
}

// ParseItemTemplate parses src once into literal and placeholder parts.
func ParseItemTemplate(src string) *ItemTemplate {
	t := &ItemTemplate{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, itemPart{text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(src) {
		if src[i] != '{' {
			next := strings.IndexByte(src[i:], '{')
			if next < 0 {
				lit.WriteString(src[i:])
				break
			}
			lit.WriteString(src[i : i+next])
			i += next
			continue
		}

		if name, width, ok := matchPlaceholder(src[i:]); ok {
			flush()
			t.parts = append(t.parts, itemPart{field: name})
			i += width
			continue
		}

		lit.WriteByte('{')
		i++
	}
	flush()
	return t
}

// matchPlaceholder matches a placeholder at the start of s and returns the
// field name and the number of bytes consumed.
func matchPlaceholder(s string) (string, int, bool) {
	if strings.HasPrefix(s, "{{") {
		end := strings.Index(s[2:], "}}")
		if end >= 0 {
			inner := s[2 : 2+end]
			name := strings.TrimSpace(inner)
			if !strings.ContainsAny(inner, "{}") && itemFields[name] {
				return name, 2 + end + 2, true
			}
		}
	}
	end := strings.IndexByte(s[1:], '}')
	if end < 0 {
		return "", 0, false
	}
	name := s[1 : 1+end]
	if itemFields[name] {
		return name, 1 + end + 1, true
	}
	return "", 0, false
}

// Render substitutes field values. Values are written as-is and never
// parsed again, so brace-like text inside a value is preserved.
func (t *ItemTemplate) Render(fields map[string]string) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.field != "" {
			b.WriteString(fields[p.field])
			continue
		}
		b.WriteString(p.text)
	}
	return b.String()
}
