// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/remila/backstyle/internal/auth"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
)

const minPasswordLength = 8

// ProfileResponse represents a staff account in API responses. The
// password hash never leaves the store layer.
type ProfileResponse struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Role        string           `json:"role"`
	Permissions auth.Permissions `json:"permissions"`
	IsActive    bool             `json:"is_active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func profileToResponse(p store.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
		Permissions: auth.ParsePermissions(p.Permissions),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	if p.LastLoginAt.Valid {
		resp.LastLoginAt = &p.LastLoginAt.Time
	}
	return resp
}

// ListProfiles handles GET /api/v1/admin/users.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.queries.ListProfiles(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list staff accounts")
		return
	}

	responses := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, profileToResponse(p))
	}
	WriteSuccess(w, responses, nil)
}

// GetProfileByID handles GET /api/v1/admin/users/{id}.
func (h *Handler) GetProfileByID(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntityByID(w, r, "staff account", func(id int64) (store.Profile, error) {
		return h.queries.GetProfile(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, profileToResponse(p), nil)
}

// CreateProfileRequest is the request body for creating a staff account.
type CreateProfileRequest struct {
	Email       string          `json:"email"`
	Password    string          `json:"password"`
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// CreateProfile handles POST /api/v1/admin/users.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := make(map[string]string)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "A valid email address is required"
	}
	if len(req.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if req.Role != store.RoleAdmin && req.Role != store.RoleEditor {
		errs["role"] = "Role must be 'admin' or 'editor'"
	}
	if msg := validatePermissionFlags(req.Permissions); msg != "" {
		errs["permissions"] = msg
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to create staff account")
		return
	}

	p, err := h.queries.CreateProfile(ctx, store.CreateProfileParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Permissions:  encodePermissions(req.Permissions),
		IsActive:     req.IsActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteValidationError(w, map[string]string{"email": "An account with this email already exists"})
			return
		}
		slog.Error("failed to create staff account", "error", err)
		WriteInternalError(w, "Failed to create staff account")
		return
	}

	slog.Info("staff account created", "profile_id", p.ID, "role", p.Role, "user_id", middleware.GetProfileID(r))
	WriteCreated(w, profileToResponse(p))
}

// UpdateProfileRequest is the request body for updating a staff account.
type UpdateProfileRequest struct {
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// UpdateProfile handles PUT /api/v1/admin/users/{id}. The last active
// admin can be neither demoted nor deactivated.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "staff account", func(id int64) (store.Profile, error) {
		return h.queries.GetProfile(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	errs := make(map[string]string)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "A valid email address is required"
	}
	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if req.Role != store.RoleAdmin && req.Role != store.RoleEditor {
		errs["role"] = "Role must be 'admin' or 'editor'"
	}
	if msg := validatePermissionFlags(req.Permissions); msg != "" {
		errs["permissions"] = msg
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	demoting := req.Role != store.RoleAdmin || !req.IsActive
	if existing.Role == store.RoleAdmin && existing.IsActive && demoting {
		last, err := h.isLastActiveAdmin(ctx, existing.ID)
		if err != nil {
			WriteInternalError(w, "Failed to update staff account")
			return
		}
		if last {
			WriteValidationError(w, map[string]string{"role": "Cannot demote or deactivate the last administrator"})
			return
		}
	}

	p, err := h.queries.UpdateProfile(ctx, store.UpdateProfileParams{
		ID:          existing.ID,
		Email:       req.Email,
		Name:        req.Name,
		Role:        req.Role,
		Permissions: encodePermissions(req.Permissions),
		IsActive:    req.IsActive,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteValidationError(w, map[string]string{"email": "An account with this email already exists"})
			return
		}
		slog.Error("failed to update staff account", "error", err, "profile_id", existing.ID)
		WriteInternalError(w, "Failed to update staff account")
		return
	}

	slog.Info("staff account updated", "profile_id", p.ID, "user_id", middleware.GetProfileID(r))
	WriteSuccess(w, profileToResponse(p), nil)
}

// UpdateProfilePasswordRequest is the request body for a password change.
type UpdateProfilePasswordRequest struct {
	Password string `json:"password"`
}

// UpdateProfilePassword handles POST /api/v1/admin/users/{id}/password.
func (h *Handler) UpdateProfilePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "staff account", func(id int64) (store.Profile, error) {
		return h.queries.GetProfile(ctx, id)
	})
	if !ok {
		return
	}

	var req UpdateProfilePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteValidationError(w, map[string]string{"password": "Password must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		WriteInternalError(w, "Failed to update password")
		return
	}

	if err := h.queries.UpdateProfilePassword(ctx, store.UpdateProfilePasswordParams{
		ID:           existing.ID,
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
	}); err != nil {
		slog.Error("failed to update password", "error", err, "profile_id", existing.ID)
		WriteInternalError(w, "Failed to update password")
		return
	}

	slog.Info("staff password changed", "profile_id", existing.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteProfile handles DELETE /api/v1/admin/users/{id}. Accounts cannot
// delete themselves, and the last active admin cannot be removed.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "staff account", func(id int64) (store.Profile, error) {
		return h.queries.GetProfile(ctx, id)
	})
	if !ok {
		return
	}

	if existing.ID == middleware.GetProfileID(r) {
		WriteValidationError(w, map[string]string{"id": "You cannot delete your own account"})
		return
	}
	if existing.Role == store.RoleAdmin && existing.IsActive {
		last, err := h.isLastActiveAdmin(ctx, existing.ID)
		if err != nil {
			WriteInternalError(w, "Failed to delete staff account")
			return
		}
		if last {
			WriteValidationError(w, map[string]string{"id": "Cannot delete the last administrator"})
			return
		}
	}

	if err := h.queries.DeleteProfile(ctx, existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete staff account")
		return
	}

	slog.Info("staff account deleted", "profile_id", existing.ID, "user_id", middleware.GetProfileID(r))
	w.WriteHeader(http.StatusNoContent)
}

// isLastActiveAdmin reports whether the given profile is the only active
// admin account. The staff table is small, so scanning it is fine.
func (h *Handler) isLastActiveAdmin(ctx context.Context, id int64) (bool, error) {
	profiles, err := h.queries.ListProfiles(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range profiles {
		if p.ID != id && p.Role == store.RoleAdmin && p.IsActive {
			return false, nil
		}
	}
	return true, nil
}

// validatePermissionFlags rejects flags outside the closed feature set.
func validatePermissionFlags(flags map[string]bool) string {
	for id := range flags {
		if !auth.IsGatedFeature(id) {
			return "Unknown feature flag: " + id
		}
	}
	return ""
}

// encodePermissions serializes feature flags for storage. A nil map
// becomes the empty flag set.
func encodePermissions(flags map[string]bool) string {
	if flags == nil {
		return "{}"
	}
	data, err := json.Marshal(flags)
	if err != nil {
		return "{}"
	}
	return string(data)
}
