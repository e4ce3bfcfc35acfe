// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Block definition categories. Used for grouping in the editor only.
const (
	BlockCategorySystem  = "system"
	BlockCategoryContent = "content"
)

// BlockDefinition is a reusable, shared content fragment.
type BlockDefinition struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Slug              string    `json:"slug"`
	Category          string    `json:"category"`
	Content           string    `json:"content"`
	IsDefault         bool      `json:"is_default"`
	SortOrder         int64     `json:"sort_order"`
	DefaultParameters string    `json:"default_parameters"` // JSON object
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Defaults decodes DefaultParameters into a name/value map.
// Non-string JSON values are converted with their JSON text.
func (d *BlockDefinition) Defaults() (map[string]string, error) {
	return ParseDefaultParameters(d.DefaultParameters)
}

// ParseDefaultParameters decodes a JSON object of default parameter values.
func ParseDefaultParameters(raw string) (map[string]string, error) {
	params := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return params, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decoding default parameters: %w", err)
	}

	for name, value := range decoded {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			params[name] = s
			continue
		}
		if string(value) == "null" {
			params[name] = ""
			continue
		}
		params[name] = string(value)
	}
	return params, nil
}

// BlockInstance is the placement of a BlockDefinition on a page.
type BlockInstance struct {
	ID              int64  `json:"id"`
	PageID          int64  `json:"page_id"`
	DefinitionID    int64  `json:"definition_id"`
	DefinitionSlug  string `json:"definition_slug"`
	Title           string `json:"title,omitempty"`
	OverrideContent string `json:"override_content,omitempty"`
	UseDefault      bool   `json:"use_default"`
	SortOrder       int64  `json:"sort_order"`
	DefaultContent  string `json:"default_content"`
}

// Content returns the content selected by UseDefault. The override is kept
// but ignored while UseDefault is set.
func (b *BlockInstance) Content() string {
	if b.UseDefault {
		return b.DefaultContent
	}
	return b.OverrideContent
}
