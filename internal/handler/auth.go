// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/remila/backstyle/internal/auth"
	"github.com/remila/backstyle/internal/middleware"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the current authentication state.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Profile       *ProfileResponse `json:"profile,omitempty"`
}

// sessionResponseFromState converts a resolver state for API output.
func sessionResponseFromState(state auth.State) SessionResponse {
	resp := SessionResponse{Authenticated: state.IsAuthenticated}
	if state.Profile != nil {
		p := profileToResponse(*state.Profile)
		resp.Profile = &p
	}
	return resp
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteValidationError(w, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
		})
		return
	}

	if h.protection != nil {
		if locked, remaining := h.protection.IsAccountLocked(req.Email); locked {
			slog.Warn("login attempt on locked account", "email", req.Email)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account temporarily locked. Try again in "+remaining.Round(time.Second).String(), nil)
			return
		}
	}

	state, err := h.resolver.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			if h.protection != nil {
				h.protection.RecordFailedAttempt(req.Email)
			}
			WriteUnauthorized(w, "Invalid email or password")
		case errors.Is(err, auth.ErrAccountInactive):
			WriteForbidden(w, "Account is deactivated")
		case errors.Is(err, auth.ErrLoginInFlight):
			WriteError(w, http.StatusConflict, "login_in_flight", "A sign-in for this account is already in progress", nil)
		default:
			slog.Error("login failed", "error", err)
			WriteInternalError(w, "Sign-in failed")
		}
		return
	}

	if h.protection != nil {
		h.protection.RecordSuccessfulLogin(req.Email)
	}

	WriteSuccess(w, sessionResponseFromState(state), nil)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.Logout(r.Context()); err != nil {
		slog.Error("logout failed", "error", err)
		WriteInternalError(w, "Sign-out failed")
		return
	}
	WriteSuccess(w, SessionResponse{Authenticated: false}, nil)
}

// Session handles GET /api/v1/auth/session. It reports the state resolved
// by the session middleware without touching the database again.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, sessionResponseFromState(middleware.GetAuthState(r)), nil)
}

// Menu handles GET /api/v1/auth/menu. The default admin menu is filtered
// down to the items the current profile may access.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	items := auth.AccessibleMenuItems(middleware.GetProfile(r), auth.DefaultMenu())
	WriteSuccess(w, items, nil)
}
