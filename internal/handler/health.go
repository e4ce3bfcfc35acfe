// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/olegiv/blockpress/internal/scheduler"
	"github.com/olegiv/blockpress/internal/version"
)

// StatusReporter exposes the republish job state.
type StatusReporter interface {
	Status() scheduler.Status
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	scheduler  StatusReporter
	publishDir string
	version    version.Info
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. sched may be nil.
func NewHealthHandler(db *sql.DB, sched StatusReporter, publishDir string, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:         db,
		scheduler:  sched,
		publishDir: publishDir,
		version:    info,
		startTime:  time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Checks    map[string]Check  `json:"checks"`
	Scheduler *scheduler.Status `json:"scheduler,omitempty"`
	System    *SystemInfo       `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database":    h.checkDatabase(),
		"publish_dir": h.checkPublishDir(),
	}
	overallStatus := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			overallStatus = "degraded"
		}
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    checks,
	}
	if status.Version == "" {
		status.Version = "dev"
	}
	if h.scheduler != nil {
		st := h.scheduler.Status()
		status.Scheduler = &st
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = runtimeInfo()
	}

	code := http.StatusOK
	if overallStatus != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Ready means the database answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, _ *http.Request) {
	if db := h.checkDatabase(); db.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": db.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkDatabase pings the database and reports the round trip.
func (h *HealthHandler) checkDatabase() Check {
	start := time.Now()
	if err := h.db.Ping(); err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: time.Since(start).String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: time.Since(start).String()}
}

// minPublishSpace is the free space below which publishing is reported as degraded.
const minPublishSpace = 100 << 20

// checkPublishDir verifies the publish root is a directory with room for
// artifacts. A missing root is fine: the first publish creates it.
func (h *HealthHandler) checkPublishDir() Check {
	info, err := os.Stat(h.publishDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Check{Status: "healthy", Message: "Publish directory not created yet"}
	case err != nil:
		return Check{Status: "unhealthy", Message: err.Error()}
	case !info.IsDir():
		return Check{Status: "unhealthy", Message: h.publishDir + " is not a directory"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.publishDir, &stat); err != nil {
		return Check{Status: "unhealthy", Message: "statfs: " + err.Error()}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minPublishSpace {
		return Check{Status: "degraded", Message: "Low disk space: " + formatBytes(free) + " free"}
	}
	return Check{Status: "healthy", Message: formatBytes(free) + " free"}
}

func runtimeInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes renders n with a binary unit, e.g. "1.50 MB".
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n) / unit
	suffixes := []string{"KB", "MB", "GB", "TB"}
	i := 0
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.2f %s", value, suffixes[i])
}
