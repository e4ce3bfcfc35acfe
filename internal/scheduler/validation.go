// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Disabled turns periodic runs off.
const Disabled = "off"

// normalizeSchedule maps empty and "off" schedules to "".
func normalizeSchedule(spec string) string {
	spec = strings.TrimSpace(spec)
	if strings.EqualFold(spec, Disabled) {
		return ""
	}
	return spec
}

// ValidateSchedule checks a standard five-field cron expression or a
// descriptor such as "@hourly" or "@every 30m". An empty schedule or "off"
// is valid and disables the job.
func ValidateSchedule(spec string) error {
	spec = normalizeSchedule(spec)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}
