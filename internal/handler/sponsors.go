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

// Sponsor tiers accepted by the API.
var sponsorTiers = map[string]bool{
	"platinum": true,
	"gold":     true,
	"silver":   true,
}

// SponsorResponse represents a sponsor in API responses.
type SponsorResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	LogoPath  string `json:"logo_path,omitempty"`
	Tier      string `json:"tier"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func sponsorToResponse(s store.Sponsor) SponsorResponse {
	return SponsorResponse{
		ID:        s.ID,
		Name:      s.Name,
		URL:       s.URL,
		LogoPath:  s.LogoPath,
		Tier:      s.Tier,
		SortOrder: s.SortOrder,
		IsVisible: s.IsVisible,
	}
}

// ListPublicSponsors handles GET /api/v1/sponsors. Visible sponsors only, cached.
func (h *Handler) ListPublicSponsors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixSponsors + "public"
	var c []SponsorResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	sponsors, err := h.queries.ListVisibleSponsors(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list sponsors")
		return
	}

	responses := make([]SponsorResponse, 0, len(sponsors))
	for _, s := range sponsors {
		responses = append(responses, sponsorToResponse(s))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, responses)
	WriteSuccess(w, responses, nil)
}

// ListSponsors handles GET /api/v1/admin/sponsors.
func (h *Handler) ListSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.queries.ListSponsors(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list sponsors")
		return
	}

	responses := make([]SponsorResponse, 0, len(sponsors))
	for _, s := range sponsors {
		responses = append(responses, sponsorToResponse(s))
	}
	WriteSuccess(w, responses, nil)
}

// SponsorRequest is the request body for creating or updating a sponsor.
type SponsorRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	LogoPath  string `json:"logo_path,omitempty"`
	Tier      string `json:"tier"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func (req SponsorRequest) validate() map[string]string {
	errs := make(map[string]string)
	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if !sponsorTiers[req.Tier] {
		errs["tier"] = "Tier must be one of: platinum, gold, silver"
	}
	return errs
}

// CreateSponsor handles POST /api/v1/admin/sponsors.
func (h *Handler) CreateSponsor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SponsorRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	s, err := h.queries.CreateSponsor(ctx, store.CreateSponsorParams{
		Name:      req.Name,
		URL:       req.URL,
		LogoPath:  req.LogoPath,
		Tier:      req.Tier,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to create sponsor", "error", err)
		WriteInternalError(w, "Failed to create sponsor")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixSponsors)
	slog.Info("sponsor created", "sponsor_id", s.ID, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, sponsorToResponse(s))
}

// UpdateSponsor handles PUT /api/v1/admin/sponsors/{id}.
func (h *Handler) UpdateSponsor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "sponsor", func(id int64) (store.Sponsor, error) {
		return h.queries.GetSponsor(ctx, id)
	})
	if !ok {
		return
	}

	var req SponsorRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	s, err := h.queries.UpdateSponsor(ctx, store.UpdateSponsorParams{
		ID:        existing.ID,
		Name:      req.Name,
		URL:       req.URL,
		LogoPath:  req.LogoPath,
		Tier:      req.Tier,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update sponsor", "error", err, "sponsor_id", existing.ID)
		WriteInternalError(w, "Failed to update sponsor")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixSponsors)
	WriteSuccess(w, sponsorToResponse(s), nil)
}

// DeleteSponsor handles DELETE /api/v1/admin/sponsors/{id}.
func (h *Handler) DeleteSponsor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := requireEntityByID(w, r, "sponsor", func(id int64) (store.Sponsor, error) {
		return h.queries.GetSponsor(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteSponsor(ctx, s.ID); err != nil {
		WriteInternalError(w, "Failed to delete sponsor")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixSponsors)
	slog.Info("sponsor deleted", "sponsor_id", s.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}
