// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler periodically republishes the site so that listings
// derived from dates and other pages stay current.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/blockpress/internal/model"
	"github.com/olegiv/blockpress/internal/publish"
)

// Publisher is the publishing work run on each tick.
type Publisher interface {
	RepublishAll(ctx context.Context) (*publish.Report, error)
	PublishSitemap(ctx context.Context) (*publish.SitemapResult, error)
}

// EventLogger records the outcome of each run.
type EventLogger interface {
	LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error
}

// Status is the public view of the republish job.
type Status struct {
	Schedule  string    `json:"schedule"`
	Enabled   bool      `json:"enabled"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitzero"`
	NextRun   time.Time `json:"next_run,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// Scheduler runs RepublishAll followed by PublishSitemap on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	publisher Publisher
	events    EventLogger
	logger    *slog.Logger
	entryID   cron.EntryID

	mu        sync.Mutex
	running   bool
	lastRun   time.Time
	lastError string
}

// New creates a new scheduler. An empty or "off" schedule disables periodic
// runs; RunNow still works. events may be nil.
func New(schedule string, publisher Publisher, events EventLogger, logger *slog.Logger) (*Scheduler, error) {
	schedule = normalizeSchedule(schedule)
	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		publisher: publisher,
		events:    events,
		logger:    logger,
	}, nil
}

// Start registers the republish job and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("scheduler disabled", "category", model.EventCategoryScheduler)
		return nil
	}

	id, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(context.Background()); err != nil {
			s.logger.Error("scheduled republish failed", "category", model.EventCategoryScheduler, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.entryID = id

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// ErrAlreadyRunning is returned by RunNow when a run is in progress.
var ErrAlreadyRunning = errors.New("republish already running")

// RunNow republishes every published page and rewrites the sitemap. Runs do
// not overlap. The returned error joins listing, page and sitemap failures.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	err := s.run(ctx)

	s.mu.Lock()
	s.running = false
	s.lastRun = start
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.mu.Unlock()

	return err
}

func (s *Scheduler) run(ctx context.Context) error {
	var errs []error
	metadata := map[string]any{}

	report, err := s.publisher.RepublishAll(ctx)
	switch {
	case err != nil:
		errs = append(errs, err)
	default:
		metadata["run_id"] = report.RunID
		metadata["attempted"] = report.Attempted
		metadata["succeeded"] = report.Succeeded
		if report.Err != nil {
			errs = append(errs, report.Err)
		}
	}

	sitemap, err := s.publisher.PublishSitemap(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("sitemap: %w", err))
	} else {
		metadata["sitemap_urls"] = sitemap.URLs
	}

	runErr := errors.Join(errs...)
	s.logEvent(ctx, runErr, metadata)
	return runErr
}

func (s *Scheduler) logEvent(ctx context.Context, runErr error, metadata map[string]any) {
	if s.events == nil {
		return
	}
	level, message := model.EventLevelInfo, "Scheduled republish completed"
	if runErr != nil {
		level, message = model.EventLevelError, "Scheduled republish completed with errors"
		metadata["error"] = runErr.Error()
	}
	if err := s.events.LogEvent(ctx, level, model.EventCategoryScheduler, message, metadata); err != nil {
		s.logger.Warn("failed to log scheduler event", "error", err)
	}
}

// Status returns the job's schedule and last run outcome.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Schedule:  s.schedule,
		Enabled:   s.schedule != "",
		Running:   s.running,
		LastRun:   s.lastRun,
		LastError: s.lastError,
	}
	if s.entryID != 0 {
		st.NextRun = s.cron.Entry(s.entryID).Next
	}
	return st
}
