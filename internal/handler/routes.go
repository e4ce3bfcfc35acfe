// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the admin API.
package handler

import "github.com/go-chi/chi/v5"

// Route paths.
const (
	RouteHealth          = "/health"
	RouteHealthLive      = "/health/live"
	RouteHealthReady     = "/health/ready"
	RouteAdmin           = "/admin"
	RoutePagePreview     = "/pages/{id}/preview"
	RoutePagePublish     = "/pages/{id}/publish"
	RouteRepublishAll    = "/publish"
	RouteBlockRepublish  = "/blocks/{id}/republish"
	RouteSitemap         = "/sitemap"
	RouteScheduler       = "/scheduler"
	RouteSchedulerRunNow = "/scheduler/run"
)

// Register mounts the health and admin routes on r.
func Register(r chi.Router, health *HealthHandler, pub *PublishHandler) {
	r.Get(RouteHealth, health.Health)
	r.Get(RouteHealthLive, health.Liveness)
	r.Get(RouteHealthReady, health.Readiness)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get(RoutePagePreview, pub.Preview)
		r.Post(RoutePagePublish, pub.PublishPage)
		r.Post(RouteRepublishAll, pub.RepublishAll)
		r.Post(RouteBlockRepublish, pub.RepublishBlock)
		r.Post(RouteSitemap, pub.Sitemap)
		r.Get(RouteScheduler, pub.SchedulerStatus)
		r.Post(RouteSchedulerRunNow, pub.SchedulerRun)
	})
}
