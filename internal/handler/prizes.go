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

// PrizeResponse represents a prize tier in API responses.
type PrizeResponse struct {
	ID          int64  `json:"id"`
	RankLabel   string `json:"rank_label"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	SortOrder   int64  `json:"sort_order"`
	IsVisible   bool   `json:"is_visible"`
}

func prizeToResponse(p store.Prize) PrizeResponse {
	return PrizeResponse{
		ID:          p.ID,
		RankLabel:   p.RankLabel,
		Title:       p.Title,
		Description: p.Description,
		ImagePath:   p.ImagePath,
		SortOrder:   p.SortOrder,
		IsVisible:   p.IsVisible,
	}
}

// ListPublicPrizes handles GET /api/v1/prizes. Visible prizes only, cached.
func (h *Handler) ListPublicPrizes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixPrizes + "public"
	var c []PrizeResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	prizes, err := h.queries.ListVisiblePrizes(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list prizes")
		return
	}

	responses := make([]PrizeResponse, 0, len(prizes))
	for _, p := range prizes {
		responses = append(responses, prizeToResponse(p))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, responses)
	WriteSuccess(w, responses, nil)
}

// ListPrizes handles GET /api/v1/admin/prizes.
func (h *Handler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.queries.ListPrizes(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list prizes")
		return
	}

	responses := make([]PrizeResponse, 0, len(prizes))
	for _, p := range prizes {
		responses = append(responses, prizeToResponse(p))
	}
	WriteSuccess(w, responses, nil)
}

// PrizeRequest is the request body for creating or updating a prize.
type PrizeRequest struct {
	RankLabel   string `json:"rank_label"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImagePath   string `json:"image_path,omitempty"`
	SortOrder   int64  `json:"sort_order"`
	IsVisible   bool   `json:"is_visible"`
}

func (req PrizeRequest) validate() map[string]string {
	errs := make(map[string]string)
	if req.RankLabel == "" {
		errs["rank_label"] = "Rank label is required"
	}
	if req.Title == "" {
		errs["title"] = "Title is required"
	}
	return errs
}

// CreatePrize handles POST /api/v1/admin/prizes.
func (h *Handler) CreatePrize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PrizeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	p, err := h.queries.CreatePrize(ctx, store.CreatePrizeParams{
		RankLabel:   req.RankLabel,
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		SortOrder:   req.SortOrder,
		IsVisible:   req.IsVisible,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to create prize", "error", err)
		WriteInternalError(w, "Failed to create prize")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixPrizes)
	slog.Info("prize created", "prize_id", p.ID, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, prizeToResponse(p))
}

// UpdatePrize handles PUT /api/v1/admin/prizes/{id}.
func (h *Handler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "prize", func(id int64) (store.Prize, error) {
		return h.queries.GetPrize(ctx, id)
	})
	if !ok {
		return
	}

	var req PrizeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	p, err := h.queries.UpdatePrize(ctx, store.UpdatePrizeParams{
		ID:          existing.ID,
		RankLabel:   req.RankLabel,
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		SortOrder:   req.SortOrder,
		IsVisible:   req.IsVisible,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to update prize", "error", err, "prize_id", existing.ID)
		WriteInternalError(w, "Failed to update prize")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixPrizes)
	WriteSuccess(w, prizeToResponse(p), nil)
}

// DeletePrize handles DELETE /api/v1/admin/prizes/{id}.
func (h *Handler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := requireEntityByID(w, r, "prize", func(id int64) (store.Prize, error) {
		return h.queries.GetPrize(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePrize(ctx, p.ID); err != nil {
		WriteInternalError(w, "Failed to delete prize")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixPrizes)
	slog.Info("prize deleted", "prize_id", p.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}
