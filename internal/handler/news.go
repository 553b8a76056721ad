// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/util"
)

// NewsResponse represents a news item in API responses. BodyHTML is only
// populated on the public surface where the Markdown source is rendered.
type NewsResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body,omitempty"`
	BodyHTML    string     `json:"body_html,omitempty"`
	Status      string     `json:"status"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newsToResponse(n store.News, renderBody bool) NewsResponse {
	resp := NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Slug:      n.Slug,
		Status:    n.Status,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if renderBody {
		resp.BodyHTML = renderMarkdown(n.Body)
	} else {
		resp.Body = n.Body
	}
	if n.PublishAt.Valid {
		resp.PublishAt = &n.PublishAt.Time
	}
	if n.PublishedAt.Valid {
		resp.PublishedAt = &n.PublishedAt.Time
	}
	return resp
}

// ListPublicNews handles GET /api/v1/news. Only published items are
// returned, newest first, with rendered bodies. The first page is cached.
func (h *Handler) ListPublicNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 10, 50)

	type cached struct {
		Items []NewsResponse `json:"items"`
		Total int64          `json:"total"`
	}
	cacheKey := fmt.Sprintf("%slist:%d:%d", cache.KeyPrefixNews, page, perPage)

	var c cached
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c.Items, &Meta{
			Total: c.Total, Page: page, PerPage: perPage, Pages: totalPages(c.Total, perPage),
		})
		return
	}

	items, err := h.queries.ListPublishedNews(ctx, store.ListPublishedNewsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountPublishedNews(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count news")
		return
	}

	responses := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, newsToResponse(n, true))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, cached{Items: responses, Total: total})

	WriteSuccess(w, responses, &Meta{
		Total: total, Page: page, PerPage: perPage, Pages: totalPages(total, perPage),
	})
}

// GetPublicNews handles GET /api/v1/news/{slug}. Only published items are
// visible to the public.
func (h *Handler) GetPublicNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	cacheKey := cache.KeyPrefixNews + "slug:" + slug
	var c NewsResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	n, err := h.queries.GetNewsBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "News not found")
		} else {
			WriteInternalError(w, "Failed to retrieve news")
		}
		return
	}
	if n.Status != store.NewsStatusPublished {
		WriteNotFound(w, "News not found")
		return
	}

	resp := newsToResponse(n, true)
	_ = h.cache.SetJSON(ctx, cacheKey, resp)
	WriteSuccess(w, resp, nil)
}

// ListNews handles GET /api/v1/admin/news. All statuses, raw Markdown bodies.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	items, err := h.queries.ListNews(ctx, store.ListNewsParams{
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNews(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count news")
		return
	}

	responses := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, newsToResponse(n, false))
	}

	WriteSuccess(w, responses, &Meta{
		Total: total, Page: page, PerPage: perPage, Pages: totalPages(total, perPage),
	})
}

// GetNews handles GET /api/v1/admin/news/{id}.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	n, ok := requireEntityByID(w, r, "news", func(id int64) (store.News, error) {
		return h.queries.GetNews(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, newsToResponse(n, false), nil)
}

// CreateNewsRequest is the request body for creating a news item.
type CreateNewsRequest struct {
	Title     string  `json:"title"`
	Slug      string  `json:"slug,omitempty"`
	Body      string  `json:"body"`
	Status    string  `json:"status,omitempty"`
	PublishAt *string `json:"publish_at,omitempty"`
}

// CreateNews handles POST /api/v1/admin/news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateNewsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "Title is required"})
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		WriteValidationError(w, map[string]string{"slug": "Slug may only contain lowercase letters, digits and hyphens"})
		return
	}
	if req.Status == "" {
		req.Status = store.NewsStatusDraft
	}
	if !validNewsStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Unknown status"})
		return
	}

	params := store.CreateNewsParams{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Status:    req.Status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if profile := middleware.GetProfile(r); profile != nil {
		params.AuthorID = sql.NullInt64{Int64: profile.ID, Valid: true}
	}
	if req.PublishAt != nil && *req.PublishAt != "" {
		t, err := time.Parse(time.RFC3339, *req.PublishAt)
		if err != nil {
			WriteValidationError(w, map[string]string{"publish_at": "Invalid date format. Use RFC3339 (e.g., 2026-04-01T00:00:00Z)"})
			return
		}
		params.PublishAt = util.NullTimeFromValue(t)
	}
	if req.Status == store.NewsStatusScheduled && !params.PublishAt.Valid {
		WriteValidationError(w, map[string]string{"publish_at": "Scheduled news needs a publish time"})
		return
	}
	if req.Status == store.NewsStatusPublished {
		params.PublishedAt = util.NullTimeFromValue(time.Now())
	}

	n, err := h.queries.CreateNews(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		}
		slog.Error("failed to create news", "error", err)
		WriteInternalError(w, "Failed to create news")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixNews)
	slog.Info("news created", "news_id", n.ID, "slug", n.Slug, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, newsToResponse(n, false))
}

// UpdateNewsRequest is the request body for updating a news item.
// Absent fields keep their current values.
type UpdateNewsRequest struct {
	Title     *string `json:"title,omitempty"`
	Slug      *string `json:"slug,omitempty"`
	Body      *string `json:"body,omitempty"`
	Status    *string `json:"status,omitempty"`
	PublishAt *string `json:"publish_at,omitempty"`
}

// UpdateNews handles PUT /api/v1/admin/news/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "news", func(id int64) (store.News, error) {
		return h.queries.GetNews(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateNewsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	params := store.UpdateNewsParams{
		ID:        existing.ID,
		Title:     existing.Title,
		Slug:      existing.Slug,
		Body:      existing.Body,
		Status:    existing.Status,
		PublishAt: existing.PublishAt,
		UpdatedAt: time.Now(),
	}

	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Slug != nil {
		if !util.IsValidSlug(*req.Slug) {
			WriteValidationError(w, map[string]string{"slug": "Slug may only contain lowercase letters, digits and hyphens"})
			return
		}
		params.Slug = *req.Slug
	}
	if req.Body != nil {
		params.Body = *req.Body
	}
	if req.Status != nil {
		if !validNewsStatus(*req.Status) {
			WriteValidationError(w, map[string]string{"status": "Unknown status"})
			return
		}
		params.Status = *req.Status
	}
	if req.PublishAt != nil {
		if *req.PublishAt == "" {
			params.PublishAt = sql.NullTime{}
		} else {
			t, err := time.Parse(time.RFC3339, *req.PublishAt)
			if err != nil {
				WriteValidationError(w, map[string]string{"publish_at": "Invalid date format. Use RFC3339"})
				return
			}
			params.PublishAt = util.NullTimeFromValue(t)
		}
	}
	if params.Status == store.NewsStatusScheduled && !params.PublishAt.Valid {
		WriteValidationError(w, map[string]string{"publish_at": "Scheduled news needs a publish time"})
		return
	}

	n, err := h.queries.UpdateNews(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
			return
		}
		slog.Error("failed to update news", "error", err, "news_id", existing.ID)
		WriteInternalError(w, "Failed to update news")
		return
	}

	// A status change to published needs a publication timestamp.
	if n.Status == store.NewsStatusPublished && !n.PublishedAt.Valid {
		if err := h.queries.PublishNews(ctx, store.PublishNewsParams{ID: n.ID, PublishedAt: time.Now()}); err != nil {
			slog.Error("failed to stamp publication time", "error", err, "news_id", n.ID)
		} else {
			n, _ = h.queries.GetNews(ctx, n.ID)
		}
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixNews)
	WriteSuccess(w, newsToResponse(n, false), nil)
}

// PublishNews handles POST /api/v1/admin/news/{id}/publish.
func (h *Handler) PublishNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, ok := requireEntityByID(w, r, "news", func(id int64) (store.News, error) {
		return h.queries.GetNews(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.PublishNews(ctx, store.PublishNewsParams{ID: n.ID, PublishedAt: time.Now()}); err != nil {
		slog.Error("failed to publish news", "error", err, "news_id", n.ID)
		WriteInternalError(w, "Failed to publish news")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixNews)
	slog.Info("news published", "news_id", n.ID, "user_id", middleware.GetProfileID(r))

	n, err := h.queries.GetNews(ctx, n.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve news")
		return
	}
	WriteSuccess(w, newsToResponse(n, false), nil)
}

// DeleteNews handles DELETE /api/v1/admin/news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, ok := requireEntityByID(w, r, "news", func(id int64) (store.News, error) {
		return h.queries.GetNews(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteNews(ctx, n.ID); err != nil {
		WriteInternalError(w, "Failed to delete news")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixNews)
	slog.Info("news deleted", "news_id", n.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}

func validNewsStatus(status string) bool {
	switch status {
	case store.NewsStatusDraft, store.NewsStatusScheduled, store.NewsStatusPublished, store.NewsStatusArchived:
		return true
	}
	return false
}
