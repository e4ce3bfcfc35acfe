// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import "strings"

// segment is a piece of a scanned fragment: either literal text or a
// {{...}} tag. raw always holds the exact source text.
type segment struct {
	raw   string
	inner string
	tag   bool
}

// scan splits s into literal and tag segments in a single pass. A tag is
// "{{" followed by text without braces and a closing "}}". Anything else,
// including an unterminated "{{", is literal. Joining the raw text of the
// result always reproduces s.
func scan(s string) []segment {
	var segs []segment
	i := 0
	for i < len(s) {
		open := strings.Index(s[i:], "{{")
		if open < 0 {
			segs = append(segs, segment{raw: s[i:]})
			break
		}
		open += i
		if open > i {
			segs = append(segs, segment{raw: s[i:open]})
		}

		end := strings.Index(s[open+2:], "}}")
		if end < 0 {
			segs = append(segs, segment{raw: s[open:]})
			break
		}
		inner := s[open+2 : open+2+end]
		if strings.ContainsAny(inner, "{}") {
			// Not a tag at this position; retry one byte further on.
			segs = append(segs, segment{raw: s[open : open+1]})
			i = open + 1
			continue
		}

		closeAt := open + 2 + end + 2
		segs = append(segs, segment{raw: s[open:closeAt], inner: inner, tag: true})
		i = closeAt
	}
	return segs
}

// hasTags reports whether s contains the opening token marker.
func hasTags(s string) bool {
	return strings.Contains(s, "{{")
}
