// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/remila/backstyle/internal/analytics"
	"github.com/remila/backstyle/internal/middleware"
)

// TrackRequest is the page-view beacon body sent by the public site.
type TrackRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer,omitempty"`
}

// Track handles POST /api/v1/track. The beacon always answers 204: a
// recording failure is an analytics problem, not the visitor's.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Path = strings.TrimSpace(req.Path)
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		WriteValidationError(w, map[string]string{"path": "Path must start with /"})
		return
	}

	h.tracker.Record(r.Context(), analytics.View{
		Path:      req.Path,
		Referrer:  req.Referrer,
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})

	w.WriteHeader(http.StatusNoContent)
}
