// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/remila/backstyle/internal/store"
)

// EventResponse represents an audit log record in API responses.
type EventResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Meta      string    `json:"meta,omitempty"`
}

func eventToResponse(e store.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
	}
	if e.UserID.Valid {
		resp.UserID = &e.UserID.Int64
	}
	if e.IPAddress.Valid {
		resp.IPAddress = e.IPAddress.String
	}
	if e.UserAgent.Valid {
		resp.UserAgent = e.UserAgent.String
	}
	if e.Meta.Valid {
		resp.Meta = e.Meta.String
	}
	return resp
}

// ListEvents handles GET /api/v1/admin/events. Read-only: the event log is
// written by the logging handler and the auth observer, never through the
// API.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 50, 200)
	category := r.URL.Query().Get("category")

	events, err := h.queries.ListEvents(ctx, store.ListEventsParams{
		Category: category,
		Limit:    int64(perPage),
		Offset:   int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}

	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count events")
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, eventToResponse(e))
	}

	WriteSuccess(w, responses, &Meta{
		Total: total, Page: page, PerPage: perPage, Pages: totalPages(total, perPage),
	})
}
