// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"strings"
	"unicode"

	"github.com/olegiv/blockpress/internal/model"
)

// predicates maps lower-cased conditional keys to page predicates.
// Unknown keys evaluate to false.
var predicates = map[string]func(p *model.Page) bool{
	"page:featured": func(p *model.Page) bool { return p.HasFeaturedImage() },
	"page:excerpt":  func(p *model.Page) bool { return strings.TrimSpace(p.Excerpt) != "" },
	"page:title":    func(p *model.Page) bool { return strings.TrimSpace(p.Title) != "" },
}

// EvaluatePredicate evaluates a conditional key against page.
func EvaluatePredicate(key string, page *model.Page) bool {
	if page == nil {
		return false
	}
	fn, ok := predicates[strings.ToLower(strings.TrimSpace(key))]
	return ok && fn(page)
}

// conditionalOpen returns the predicate key of an "if <key>" tag.
func conditionalOpen(inner string) (string, bool) {
	s := strings.TrimSpace(inner)
	if len(s) < 3 || !strings.EqualFold(s[:2], "if") {
		return "", false
	}
	if !unicode.IsSpace(rune(s[2])) {
		return "", false
	}
	key := strings.TrimSpace(s[2:])
	if key == "" {
		return "", false
	}
	return key, true
}

func conditionalClose(inner string) bool {
	return strings.EqualFold(strings.TrimSpace(inner), "/if")
}

// openRegion tracks an {{if}} whose {{/if}} has not been seen yet.
type openRegion struct {
	segIndex int  // index of the opening tag
	outLen   int  // output length when the region opened
	emitting bool // whether the enclosing context was emitting
}

// EvaluateConditionals resolves {{if <key>}}body{{/if}} regions. A true
// predicate keeps the body, a false one removes the whole region.
//
// Regions nest: each {{/if}} closes the innermost open {{if}}, and an inner
// body is kept only when every enclosing predicate is true. An {{if}} that is
// never closed is left verbatim together with everything after it; a stray
// {{/if}} is literal text.
func EvaluateConditionals(content string, page *model.Page) string {
	if !hasTags(content) {
		return content
	}

	segs := scan(content)
	var b strings.Builder
	b.Grow(len(content))

	var stack []openRegion
	emitting := true

	for i, seg := range segs {
		if seg.tag {
			if key, ok := conditionalOpen(seg.inner); ok {
				stack = append(stack, openRegion{segIndex: i, outLen: b.Len(), emitting: emitting})
				emitting = emitting && EvaluatePredicate(key, page)
				continue
			}
			if conditionalClose(seg.inner) && len(stack) > 0 {
				emitting = stack[len(stack)-1].emitting
				stack = stack[:len(stack)-1]
				continue
			}
		}
		if emitting {
			b.WriteString(seg.raw)
		}
	}

	if len(stack) == 0 {
		return b.String()
	}

	// Unterminated region: keep everything from the outermost unclosed
	// opener onwards exactly as written.
	unclosed := stack[0]
	out := b.String()[:unclosed.outLen]
	var tail strings.Builder
	tail.WriteString(out)
	for _, seg := range segs[unclosed.segIndex:] {
		tail.WriteString(seg.raw)
	}
	return tail.String()
}
