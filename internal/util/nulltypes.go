// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"strings"
)

// NullStringFromValue creates a sql.NullString from a string value.
// Returns a valid NullString if the string is non-empty, otherwise returns an invalid one.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullStringTrimmed is NullStringFromValue after trimming surrounding
// whitespace, so blank form input is stored as NULL.
func NullStringTrimmed(s string) sql.NullString {
	return NullStringFromValue(strings.TrimSpace(s))
}
