// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
)

// publicSettingKeys is the allowlist of settings exposed on the public
// site endpoint. Everything else stays admin-only.
var publicSettingKeys = map[string]bool{
	"site_title":     true,
	"contest_year":   true,
	"entry_open":     true,
	"entry_deadline": true,
	"contact_email":  true,
}

// SettingResponse represents a site setting in API responses.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetSite handles GET /api/v1/site: the public settings subset as a flat
// key/value object, cached.
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixSettings + "public"
	var c map[string]string
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	settings, err := h.queries.ListSettings(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to load site settings")
		return
	}

	site := make(map[string]string)
	for _, s := range settings {
		if publicSettingKeys[s.Key] {
			site[s.Key] = s.Value
		}
	}

	_ = h.cache.SetJSON(ctx, cacheKey, site)
	WriteSuccess(w, site, nil)
}

// ListSettings handles GET /api/v1/admin/settings.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list settings")
		return
	}

	responses := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		responses = append(responses, SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt})
	}
	WriteSuccess(w, responses, nil)
}

// UpsertSettingRequest is the request body for setting a value.
type UpsertSettingRequest struct {
	Value string `json:"value"`
}

// UpsertSetting handles PUT /api/v1/admin/settings/{key}.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	if key == "" {
		WriteBadRequest(w, "Setting key is required", nil)
		return
	}

	var req UpsertSettingRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:       key,
		Value:     req.Value,
		UpdatedAt: time.Now(),
	}); err != nil {
		slog.Error("failed to save setting", "error", err, "key", key)
		WriteInternalError(w, "Failed to save setting")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixSettings)
	slog.Info("setting updated", "key", key, "user_id", middleware.GetProfileID(r))

	s, err := h.queries.GetSetting(ctx, key)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve setting")
		return
	}
	WriteSuccess(w, SettingResponse{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}, nil)
}

// DeleteSetting handles DELETE /api/v1/admin/settings/{key}.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	if key == "" {
		WriteBadRequest(w, "Setting key is required", nil)
		return
	}

	if err := h.queries.DeleteSetting(ctx, key); err != nil {
		WriteInternalError(w, "Failed to delete setting")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixSettings)
	slog.Info("setting deleted", "key", key, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}
