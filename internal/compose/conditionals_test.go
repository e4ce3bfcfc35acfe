// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"testing"

	"github.com/olegiv/blockpress/internal/model"
)

func TestEvaluatePredicate(t *testing.T) {
	full := &model.Page{Title: "T", Excerpt: "E", FeaturedWebP: "a.webp"}
	empty := &model.Page{Title: "  "}

	tests := []struct {
		key  string
		page *model.Page
		want bool
	}{
		{"page:featured", full, true},
		{"page:excerpt", full, true},
		{"page:title", full, true},
		{"PAGE:Title", full, true},
		{"page:featured", empty, false},
		{"page:excerpt", empty, false},
		{"page:title", empty, false},
		{"page:unknown", full, false},
		{"page:title", nil, false},
	}
	for _, tt := range tests {
		if got := EvaluatePredicate(tt.key, tt.page); got != tt.want {
			t.Errorf("EvaluatePredicate(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestEvaluateConditionals(t *testing.T) {
	featured := &model.Page{Title: "T", FeaturedPNG: "/img/a.png"}
	plain := &model.Page{Title: "T"}

	tests := []struct {
		name    string
		content string
		page    *model.Page
		want    string
	}{
		{"true keeps body", "a{{if page:featured}}<img>{{/if}}b", featured, "a<img>b"},
		{"false drops region", "a{{if page:featured}}<img>{{/if}}b", plain, "ab"},
		{"unknown key is false", "{{if page:nope}}x{{/if}}", featured, ""},
		{"case insensitive", "{{IF Page:Title}}x{{/IF}}", plain, "x"},
		{"two regions", "{{if page:title}}1{{/if}}{{if page:excerpt}}2{{/if}}", plain, "1"},
		{"nested inner false", "{{if page:title}}A{{if page:excerpt}}B{{/if}}C{{/if}}", plain, "AC"},
		{"nested outer false", "{{if page:excerpt}}A{{if page:title}}B{{/if}}C{{/if}}D", plain, "D"},
		{"nested all true", "{{if page:title}}A{{if page:featured}}B{{/if}}C{{/if}}", featured, "ABC"},
		{"unterminated", "x{{if page:title}}y", plain, "x{{if page:title}}y"},
		{
			"unterminated outer with closed inner",
			"a{{if page:title}}b{{if page:title}}c{{/if}}d",
			plain,
			"a{{if page:title}}b{{if page:title}}c{{/if}}d",
		},
		{"stray close", "a{{/if}}b", plain, "a{{/if}}b"},
		{"other tags preserved", "{{if page:title}}{{ name }}{{/if}}", plain, "{{ name }}"},
		{"no tags", "plain", plain, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateConditionals(tt.content, tt.page); got != tt.want {
				t.Errorf("EvaluateConditionals(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
