// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"regexp"
	"strings"
)

// paramTag matches the inside of a parameter tag: a name with an optional
// ":type" hint, e.g. " title " or "title:text".
var paramTag = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+)\s*(?::\s*([A-Za-z0-9_-]+)\s*)?$`)

// reservedNamespaces are tag prefixes owned by the reserved token resolver.
var reservedNamespaces = map[string]bool{
	"page":   true,
	"config": true,
	"blog":   true,
}

// parameterName extracts the parameter name from a tag's inner text.
// Reserved tags (page:, config:, blog:, if, /if) never yield a name.
func parameterName(inner string) (string, bool) {
	m := paramTag.FindStringSubmatch(inner)
	if m == nil {
		return "", false
	}
	name := m[1]
	if strings.EqualFold(name, "if") {
		return "", false
	}
	if m[2] != "" && reservedNamespaces[strings.ToLower(name)] {
		return "", false
	}
	return name, true
}

// ResolveParameters replaces {{ name }} and {{name:type}} tags with bound
// values. Unbound names and reserved tags are left verbatim. Substituted
// values are not rescanned.
func ResolveParameters(content string, params map[string]string) string {
	if len(params) == 0 || !hasTags(content) {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	for _, seg := range scan(content) {
		if seg.tag {
			if name, ok := parameterName(seg.inner); ok {
				if value, bound := params[name]; bound {
					b.WriteString(value)
					continue
				}
			}
		}
		b.WriteString(seg.raw)
	}
	return b.String()
}
