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

// FAQResponse represents a question/answer pair in API responses.
type FAQResponse struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category,omitempty"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func faqToResponse(f store.FAQ) FAQResponse {
	return FAQResponse{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		Category:  f.Category,
		SortOrder: f.SortOrder,
		IsVisible: f.IsVisible,
	}
}

// ListPublicFAQs handles GET /api/v1/faq. Visible entries only, cached.
func (h *Handler) ListPublicFAQs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixFAQ + "public"
	var c []FAQResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	faqs, err := h.queries.ListVisibleFAQs(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list FAQ entries")
		return
	}

	responses := make([]FAQResponse, 0, len(faqs))
	for _, f := range faqs {
		responses = append(responses, faqToResponse(f))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, responses)
	WriteSuccess(w, responses, nil)
}

// ListFAQs handles GET /api/v1/admin/faqs.
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.queries.ListFAQs(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list FAQ entries")
		return
	}

	responses := make([]FAQResponse, 0, len(faqs))
	for _, f := range faqs {
		responses = append(responses, faqToResponse(f))
	}
	WriteSuccess(w, responses, nil)
}

// FAQRequest is the request body for creating or updating a FAQ entry.
type FAQRequest struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category,omitempty"`
	SortOrder int64  `json:"sort_order"`
	IsVisible bool   `json:"is_visible"`
}

func (req FAQRequest) validate() map[string]string {
	errs := make(map[string]string)
	if req.Question == "" {
		errs["question"] = "Question is required"
	}
	if req.Answer == "" {
		errs["answer"] = "Answer is required"
	}
	return errs
}

// CreateFAQ handles POST /api/v1/admin/faqs.
func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FAQRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	f, err := h.queries.CreateFAQ(ctx, store.CreateFAQParams{
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to create FAQ entry", "error", err)
		WriteInternalError(w, "Failed to create FAQ entry")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixFAQ)
	slog.Info("faq created", "faq_id", f.ID, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, faqToResponse(f))
}

// UpdateFAQ handles PUT /api/v1/admin/faqs/{id}.
func (h *Handler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "FAQ entry", func(id int64) (store.FAQ, error) {
		return h.queries.GetFAQ(ctx, id)
	})
	if !ok {
		return
	}

	var req FAQRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	f, err := h.queries.UpdateFAQ(ctx, store.UpdateFAQParams{
		ID:        existing.ID,
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		SortOrder: req.SortOrder,
		IsVisible: req.IsVisible,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update FAQ entry", "error", err, "faq_id", existing.ID)
		WriteInternalError(w, "Failed to update FAQ entry")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixFAQ)
	WriteSuccess(w, faqToResponse(f), nil)
}

// DeleteFAQ handles DELETE /api/v1/admin/faqs/{id}.
func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, ok := requireEntityByID(w, r, "FAQ entry", func(id int64) (store.FAQ, error) {
		return h.queries.GetFAQ(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteFAQ(ctx, f.ID); err != nil {
		WriteInternalError(w, "Failed to delete FAQ entry")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixFAQ)
	slog.Info("faq deleted", "faq_id", f.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}
