// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/blockpress/internal/publish"
	"github.com/olegiv/blockpress/internal/scheduler"
)

// Runner triggers an immediate republish run.
type Runner interface {
	RunNow(ctx context.Context) error
	Status() scheduler.Status
}

// PublishHandler exposes preview and publish operations over HTTP.
type PublishHandler struct {
	publisher *publish.Publisher
	runner    Runner
	logger    *slog.Logger
}

// NewPublishHandler creates a publish handler. runner may be nil, in which
// case the scheduler endpoints answer 503.
func NewPublishHandler(publisher *publish.Publisher, runner Runner, logger *slog.Logger) *PublishHandler {
	return &PublishHandler{
		publisher: publisher,
		runner:    runner,
		logger:    logger,
	}
}

// Preview handles GET /admin/pages/{id}/preview.
func (h *PublishHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	html, err := h.publisher.Render(r.Context(), id, true)
	if err != nil {
		h.writePageError(w, id, "Failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(html))
}

// PublishPage handles POST /admin/pages/{id}/publish.
func (h *PublishHandler) PublishPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	path, err := h.publisher.Render(r.Context(), id, false)
	if err != nil {
		h.writePageError(w, id, "Failed to publish page", err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"page_id": id,
		"path":    path,
	})
}

// RepublishAll handles POST /admin/publish.
func (h *PublishHandler) RepublishAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.publisher.RepublishAll(r.Context())
	if err != nil {
		h.logger.Error("republish failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list published pages")
		return
	}
	writeReport(w, report)
}

// RepublishBlock handles POST /admin/blocks/{id}/republish. It republishes
// the published pages that use the block definition.
func (h *PublishHandler) RepublishBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	report, err := h.publisher.RepublishDefinition(r.Context(), id)
	if err != nil {
		h.logger.Error("block republish failed", "definition_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to list pages using block")
		return
	}
	writeReport(w, report)
}

// Sitemap handles POST /admin/sitemap.
func (h *PublishHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	result, err := h.publisher.PublishSitemap(r.Context())
	if err != nil {
		h.logger.Error("sitemap failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to publish sitemap")
		return
	}

	writeJSONSuccess(w, map[string]any{
		"path":    result.Path,
		"urls":    result.URLs,
		"skipped": result.Skipped,
	})
}

// SchedulerStatus handles GET /admin/scheduler.
func (h *PublishHandler) SchedulerStatus(w http.ResponseWriter, _ *http.Request) {
	if h.runner == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Scheduler not configured")
		return
	}
	writeJSON(w, http.StatusOK, h.runner.Status())
}

// SchedulerRun handles POST /admin/scheduler/run.
func (h *PublishHandler) SchedulerRun(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "Scheduler not configured")
		return
	}

	err := h.runner.RunNow(r.Context())
	switch {
	case errors.Is(err, scheduler.ErrAlreadyRunning):
		writeJSONError(w, http.StatusConflict, "Republish already running")
	case err != nil:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSONSuccess(w, map[string]any{"status": h.runner.Status()})
	}
}

// writePageError maps a compose or publish failure to a response.
func (h *PublishHandler) writePageError(w http.ResponseWriter, id int64, message string, err error) {
	if errors.Is(err, publish.ErrPageNotFound) {
		writeJSONError(w, http.StatusNotFound, "Page not found")
		return
	}

	h.logger.Error(message, "page_id", id, "error", err)
	var writeErr *publish.WriteError
	if errors.As(err, &writeErr) {
		writeJSONError(w, http.StatusInternalServerError, message+": cannot write "+writeErr.Path)
		return
	}
	writeJSONError(w, http.StatusInternalServerError, message)
}

// writeReport returns the republish report. Partial failures keep status
// 200 and set success to false.
func writeReport(w http.ResponseWriter, report *publish.Report) {
	resp := map[string]any{
		"success":   report.Err == nil,
		"run_id":    report.RunID,
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed(),
		"results":   report.Results,
	}
	if report.Err != nil {
		resp["error"] = report.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseIDParam reads a positive int64 URL parameter, writing 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
