// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"strings"
	"testing"
)

func joinRaw(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.raw)
	}
	return b.String()
}

func TestScan(t *testing.T) {
	segs := scan("a {{ x }} b")
	if len(segs) != 3 {
		t.Fatalf("len(segs) = %d, want 3", len(segs))
	}
	if segs[0].tag || segs[0].raw != "a " {
		t.Errorf("segs[0] = %+v, want literal %q", segs[0], "a ")
	}
	if !segs[1].tag || segs[1].inner != " x " {
		t.Errorf("segs[1] = %+v, want tag with inner %q", segs[1], " x ")
	}
	if segs[2].tag || segs[2].raw != " b" {
		t.Errorf("segs[2] = %+v, want literal %q", segs[2], " b")
	}
}

func TestScanRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"{{a}}{{b}}",
		"x {{y",
		"{{a{b}}",
		"}} {{ }}",
		"{{{title}}}",
		"{{if page:title}}t{{/if}}",
	}
	for _, in := range inputs {
		if got := joinRaw(scan(in)); got != in {
			t.Errorf("joinRaw(scan(%q)) = %q", in, got)
		}
	}
}

func TestScanUnterminatedIsLiteral(t *testing.T) {
	for _, seg := range scan("x {{y") {
		if seg.tag {
			t.Errorf("unexpected tag segment %+v", seg)
		}
	}
}

func TestScanBraceInsideTag(t *testing.T) {
	segs := scan("{{{title}}}")
	var tags []string
	for _, s := range segs {
		if s.tag {
			tags = append(tags, s.inner)
		}
	}
	if len(tags) != 1 || tags[0] != "title" {
		t.Errorf("tags = %v, want [title]", tags)
	}
}
