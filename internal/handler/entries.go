// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
)

// maxUploadSize caps entry photo uploads at 20 MB.
const maxUploadSize = 20 << 20

// EntryResponse represents a gallery entry in API responses.
type EntryResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	StylistName string    `json:"stylist_name"`
	SalonName   string    `json:"salon_name,omitempty"`
	Description string    `json:"description,omitempty"`
	PhotoPath   string    `json:"photo_path"`
	ThumbPath   string    `json:"thumb_path"`
	Status      string    `json:"status"`
	SortOrder   int64     `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func entryToResponse(e store.Entry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		Title:       e.Title,
		StylistName: e.StylistName,
		SalonName:   e.SalonName,
		Description: e.Description,
		PhotoPath:   e.PhotoPath,
		ThumbPath:   e.ThumbPath,
		Status:      e.Status,
		SortOrder:   e.SortOrder,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ListPublicEntries handles GET /api/v1/entries. Approved gallery entries
// only, in display order, cached.
func (h *Handler) ListPublicEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := cache.KeyPrefixEntries + "public"
	var c []EntryResponse
	if err := h.cache.GetJSON(ctx, cacheKey, &c); err == nil {
		WriteSuccess(w, c, nil)
		return
	}

	entries, err := h.queries.ListApprovedEntries(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list entries")
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, entryToResponse(e))
	}

	_ = h.cache.SetJSON(ctx, cacheKey, responses)
	WriteSuccess(w, responses, nil)
}

// ListEntries handles GET /api/v1/admin/entries with an optional status
// filter.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := ParsePageParam(r)
	perPage := ParsePerPageParam(r, 20, 100)

	status := r.URL.Query().Get("status")
	if status != "" && !validEntryStatus(status) {
		WriteBadRequest(w, "Unknown entry status", nil)
		return
	}

	entries, err := h.queries.ListEntries(ctx, store.ListEntriesParams{
		Status: status,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list entries")
		return
	}

	var total int64
	if status != "" {
		total, err = h.queries.CountEntriesByStatus(ctx, status)
	} else {
		for _, s := range []string{store.EntryStatusPending, store.EntryStatusApproved, store.EntryStatusRejected} {
			var n int64
			n, err = h.queries.CountEntriesByStatus(ctx, s)
			if err != nil {
				break
			}
			total += n
		}
	}
	if err != nil {
		WriteInternalError(w, "Failed to count entries")
		return
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, entryToResponse(e))
	}

	WriteSuccess(w, responses, &Meta{
		Total: total, Page: page, PerPage: perPage, Pages: totalPages(total, perPage),
	})
}

// GetEntry handles GET /api/v1/admin/entries/{id}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := requireEntityByID(w, r, "entry", func(id int64) (store.Entry, error) {
		return h.queries.GetEntry(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, entryToResponse(e), nil)
}

// CreateEntry handles POST /api/v1/admin/entries. The request is
// multipart/form-data carrying entry metadata and the photo file. New
// entries always start in the pending queue.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form or file too large", nil)
		return
	}

	title := r.FormValue("title")
	stylistName := r.FormValue("stylist_name")
	if title == "" || stylistName == "" {
		WriteValidationError(w, map[string]string{
			"title":        "Title is required",
			"stylist_name": "Stylist name is required",
		})
		return
	}
	sortOrder, _ := strconv.ParseInt(r.FormValue("sort_order"), 10, 64)

	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteValidationError(w, map[string]string{"photo": "Photo file is required"})
		return
	}
	defer file.Close()

	photo, err := h.images.ProcessEntryPhoto(file, header.Filename)
	if err != nil {
		slog.Warn("rejected entry photo", "error", err, "filename", header.Filename)
		WriteValidationError(w, map[string]string{"photo": "Unsupported or corrupt image file"})
		return
	}

	e, err := h.queries.CreateEntry(ctx, store.CreateEntryParams{
		Title:       title,
		StylistName: stylistName,
		SalonName:   r.FormValue("salon_name"),
		Description: r.FormValue("description"),
		PhotoPath:   photo.PhotoPath,
		ThumbPath:   photo.ThumbPath,
		Status:      store.EntryStatusPending,
		SortOrder:   sortOrder,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		// Remove orphaned files when the insert fails.
		_ = h.images.DeleteEntryPhoto(photo.PhotoPath)
		slog.Error("failed to create entry", "error", err)
		WriteInternalError(w, "Failed to create entry")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixEntries)
	slog.Info("entry created", "entry_id", e.ID, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, entryToResponse(e))
}

// UpdateEntryRequest is the request body for updating entry metadata.
type UpdateEntryRequest struct {
	Title       string `json:"title"`
	StylistName string `json:"stylist_name"`
	SalonName   string `json:"salon_name,omitempty"`
	Description string `json:"description,omitempty"`
	SortOrder   int64  `json:"sort_order"`
}

// UpdateEntry handles PUT /api/v1/admin/entries/{id}. Metadata only; the
// photo is replaced through UpdateEntryPhoto.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "entry", func(id int64) (store.Entry, error) {
		return h.queries.GetEntry(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == "" || req.StylistName == "" {
		WriteValidationError(w, map[string]string{
			"title":        "Title is required",
			"stylist_name": "Stylist name is required",
		})
		return
	}

	e, err := h.queries.UpdateEntry(ctx, store.UpdateEntryParams{
		ID:          existing.ID,
		Title:       req.Title,
		StylistName: req.StylistName,
		SalonName:   req.SalonName,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("failed to update entry", "error", err, "entry_id", existing.ID)
		WriteInternalError(w, "Failed to update entry")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixEntries)
	WriteSuccess(w, entryToResponse(e), nil)
}

// UpdateEntryPhoto handles POST /api/v1/admin/entries/{id}/photo. The old
// photo files are removed after the new ones are stored.
func (h *Handler) UpdateEntryPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "entry", func(id int64) (store.Entry, error) {
		return h.queries.GetEntry(ctx, id)
	})
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form or file too large", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteValidationError(w, map[string]string{"photo": "Photo file is required"})
		return
	}
	defer file.Close()

	photo, err := h.images.ProcessEntryPhoto(file, header.Filename)
	if err != nil {
		slog.Warn("rejected entry photo", "error", err, "filename", header.Filename)
		WriteValidationError(w, map[string]string{"photo": "Unsupported or corrupt image file"})
		return
	}

	if err := h.queries.UpdateEntryPhoto(ctx, store.UpdateEntryPhotoParams{
		ID:        existing.ID,
		PhotoPath: photo.PhotoPath,
		ThumbPath: photo.ThumbPath,
		UpdatedAt: time.Now(),
	}); err != nil {
		_ = h.images.DeleteEntryPhoto(photo.PhotoPath)
		slog.Error("failed to update entry photo", "error", err, "entry_id", existing.ID)
		WriteInternalError(w, "Failed to update entry photo")
		return
	}

	if existing.PhotoPath != "" {
		if err := h.images.DeleteEntryPhoto(existing.PhotoPath); err != nil {
			slog.Warn("failed to remove replaced photo", "error", err, "path", existing.PhotoPath)
		}
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixEntries)
	e, err := h.queries.GetEntry(ctx, existing.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve entry")
		return
	}
	WriteSuccess(w, entryToResponse(e), nil)
}

// EntryStatusRequest is the request body for a moderation decision.
type EntryStatusRequest struct {
	Status string `json:"status"`
}

// UpdateEntryStatus handles POST /api/v1/admin/entries/{id}/status.
func (h *Handler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "entry", func(id int64) (store.Entry, error) {
		return h.queries.GetEntry(ctx, id)
	})
	if !ok {
		return
	}

	var req EntryStatusRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validEntryStatus(req.Status) {
		WriteValidationError(w, map[string]string{"status": "Status must be one of: pending, approved, rejected"})
		return
	}

	if err := h.queries.UpdateEntryStatus(ctx, store.UpdateEntryStatusParams{
		ID:        existing.ID,
		Status:    req.Status,
		UpdatedAt: time.Now(),
	}); err != nil {
		slog.Error("failed to update entry status", "error", err, "entry_id", existing.ID)
		WriteInternalError(w, "Failed to update entry status")
		return
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixEntries)
	slog.Info("entry moderated", "entry_id", existing.ID, "status", req.Status, "user_id", middleware.GetProfileID(r))

	e, err := h.queries.GetEntry(ctx, existing.ID)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve entry")
		return
	}
	WriteSuccess(w, entryToResponse(e), nil)
}

// DeleteEntry handles DELETE /api/v1/admin/entries/{id}. The stored photo
// files go with the row.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	e, ok := requireEntityByID(w, r, "entry", func(id int64) (store.Entry, error) {
		return h.queries.GetEntry(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteEntry(ctx, e.ID); err != nil {
		WriteInternalError(w, "Failed to delete entry")
		return
	}
	if e.PhotoPath != "" {
		if err := h.images.DeleteEntryPhoto(e.PhotoPath); err != nil {
			slog.Warn("failed to remove entry photo files", "error", err, "path", e.PhotoPath)
		}
	}

	h.cache.Invalidate(ctx, cache.KeyPrefixEntries)
	slog.Info("entry deleted", "entry_id", e.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}

func validEntryStatus(status string) bool {
	switch status {
	case store.EntryStatusPending, store.EntryStatusApproved, store.EntryStatusRejected:
		return true
	}
	return false
}
