// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package publish

import (
	"fmt"

	"github.com/olegiv/blockpress/internal/compose"
)

// ErrPageNotFound indicates the requested page id does not exist.
const ErrPageNotFound = compose.ErrPageNotFound

// WriteError reports a filesystem failure while persisting an artifact.
// The page's published flag is left unchanged when it occurs.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
