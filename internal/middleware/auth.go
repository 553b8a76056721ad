// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"net/http"

	"github.com/remila/backstyle/internal/auth"
	"github.com/remila/backstyle/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyAuthState   ContextKey = "auth_state"
	ContextKeyRequestPath ContextKey = "request_path"
)

// ResolveSession runs the session resolver on every request and stores the
// resulting state in the context. Handlers and later middleware read the
// state instead of re-resolving.
func ResolveSession(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := resolver.Resolve(r.Context())
			ctx := context.WithValue(r.Context(), ContextKeyAuthState, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuthState retrieves the resolved authentication state from the request
// context. Returns an unauthenticated state if the resolver middleware did
// not run.
func GetAuthState(r *http.Request) auth.State {
	state, ok := r.Context().Value(ContextKeyAuthState).(auth.State)
	if !ok {
		return auth.State{}
	}
	return state
}

// GetProfile returns the current profile from the request context, or nil.
func GetProfile(r *http.Request) *store.Profile {
	return GetAuthState(r).Profile
}

// GetProfileID returns the current profile's ID from context, or 0.
// Safe to use in logging where a zero-value is acceptable.
func GetProfileID(r *http.Request) int64 {
	if p := GetProfile(r); p != nil {
		return p.ID
	}
	return 0
}

// RequireSession rejects requests without an authenticated session.
// Must run after ResolveSession.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetAuthState(r).IsAuthenticated {
			writeAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from non-admin profiles.
// Must run after ResolveSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := GetProfile(r)
		if profile == nil {
			writeAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		if profile.Role != store.RoleAdmin {
			writeAPIError(w, http.StatusForbidden, "forbidden", "Administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireFeature gates a route on the permission flag for a feature area.
// Admins pass unconditionally; editors are checked against their flag set.
// Must run after RequireSession: the gate's nil-profile leniency is meant
// for rendering, not for skipping authentication.
func RequireFeature(featureID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.HasAccess(GetProfile(r), featureID) {
				writeAPIError(w, http.StatusForbidden, "forbidden", "Access to this feature is not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestPath stores the request path in the context for the logging
// handler to include in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
