// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
)

// JudgeResponse represents a judge in API responses.
type JudgeResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Bio       string `json:"bio,omitempty"`
	PhotoPath string `json:"photo_path,omitempty"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func judgeToResponse(j store.Judge) JudgeResponse {
	return JudgeResponse{
		ID:        j.ID,
		Name:      j.Name,
		Title:     j.Title,
		Bio:       j.Bio,
		PhotoPath: j.PhotoPath,
		SortOrder: j.SortOrder,
		IsVisible: j.IsVisible,
	}
}

// ListPublicJudges handles GET /api/v1/judges. Visible judges only, cached.
func (h *Handler) ListPublicJudges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixJudges + "public"
	var c []JudgeResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	judges, err := h.queries.ListVisibleJudges(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list judges")
		return
	}

	responses := make([]JudgeResponse, 0, len(judges))
	for _, j := range judges {
		responses = append(responses, judgeToResponse(j))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, responses)
	WriteSuccess(w, responses, nil)
}

// ListJudges handles GET /api/v1/admin/judges.
func (h *Handler) ListJudges(w http.ResponseWriter, r *http.Request) {
	judges, err := h.queries.ListJudges(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list judges")
		return
	}

	responses := make([]JudgeResponse, 0, len(judges))
	for _, j := range judges {
		responses = append(responses, judgeToResponse(j))
	}
	WriteSuccess(w, responses, nil)
}

// JudgeRequest is the request body for creating or updating a judge.
type JudgeRequest struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Bio       string `json:"bio,omitempty"`
	PhotoPath string `json:"photo_path,omitempty"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

// CreateJudge handles POST /api/v1/admin/judges.
func (h *Handler) CreateJudge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req JudgeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	j, err := h.queries.CreateJudge(ctx, store.CreateJudgeParams{
		Name:      req.Name,
		Title:     req.Title,
		Bio:       req.Bio,
		PhotoPath: req.PhotoPath,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to create judge", "error", err)
		WriteInternalError(w, "Failed to create judge")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixJudges)
	slog.Info("judge created", "judge_id", j.ID, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, judgeToResponse(j))
}

// UpdateJudge handles PUT /api/v1/admin/judges/{id}.
func (h *Handler) UpdateJudge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "judge", func(id int64) (store.Judge, error) {
		return h.queries.GetJudge(ctx, id)
	})
	if !ok {
		return
	}

	var req JudgeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		WriteValidationError(w, map[string]string{"name": "Name is required"})
		return
	}

	j, err := h.queries.UpdateJudge(ctx, store.UpdateJudgeParams{
		ID:        existing.ID,
		Name:      req.Name,
		Title:     req.Title,
		Bio:       req.Bio,
		PhotoPath: req.PhotoPath,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update judge", "error", err, "judge_id", existing.ID)
		WriteInternalError(w, "Failed to update judge")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixJudges)
	WriteSuccess(w, judgeToResponse(j), nil)
}

// DeleteJudge handles DELETE /api/v1/admin/judges/{id}.
func (h *Handler) DeleteJudge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	j, ok := requireEntityByID(w, r, "judge", func(id int64) (store.Judge, error) {
		return h.queries.GetJudge(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteJudge(ctx, j.ID); err != nil {
		WriteInternalError(w, "Failed to delete judge")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixJudges)
	slog.Info("judge deleted", "judge_id", j.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}
