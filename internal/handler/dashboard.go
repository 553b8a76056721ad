// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/remila/backstyle/internal/store"
)

// DashboardResponse aggregates the content counters shown on the admin
// dashboard.
type DashboardResponse struct {
	NewsTotal       int64 `json:"news_total"`
	NewsPublished   int64 `json:"news_published"`
	EntriesPending  int64 `json:"entries_pending"`
	EntriesApproved int64 `json:"entries_approved"`
	EntriesRejected int64 `json:"entries_rejected"`
	StaffAccounts   int64 `json:"staff_accounts"`
	EventsLogged    int64 `json:"events_logged"`
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		resp DashboardResponse
		err  error
	)
	if resp.NewsTotal, err = h.queries.CountNews(ctx); err == nil {
		resp.NewsPublished, err = h.queries.CountPublishedNews(ctx)
	}
	if err == nil {
		resp.EntriesPending, err = h.queries.CountEntriesByStatus(ctx, store.EntryStatusPending)
	}
	if err == nil {
		resp.EntriesApproved, err = h.queries.CountEntriesByStatus(ctx, store.EntryStatusApproved)
	}
	if err == nil {
		resp.EntriesRejected, err = h.queries.CountEntriesByStatus(ctx, store.EntryStatusRejected)
	}
	if err == nil {
		resp.StaffAccounts, err = h.queries.CountProfiles(ctx)
	}
	if err == nil {
		resp.EventsLogged, err = h.queries.CountEvents(ctx)
	}
	if err != nil {
		slog.Error("failed to load dashboard counters", "error", err)
		WriteInternalError(w, "Failed to load dashboard")
		return
	}

	WriteSuccess(w, resp, nil)
}

// KPI handles GET /api/v1/admin/kpi. The window defaults to 30 days and is
// capped at one year.
func (h *Handler) KPI(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 1 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	summary, err := h.tracker.Summarize(r.Context(), days)
	if err != nil {
		slog.Error("failed to summarize page views", "error", err)
		WriteInternalError(w, "Failed to load KPI data")
		return
	}

	WriteSuccess(w, summary, nil)
}
