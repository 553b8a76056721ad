// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/testutil"
)

const testPassword = "correct-horse-battery"

func newTestResolver(t *testing.T) (*Resolver, *scs.SessionManager, *sql.DB, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	sm := scs.New()
	r := NewResolver(sm, db, testutil.TestLoggerSilent())
	return r, sm, db, cleanup
}

func sessionContext(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

func createProfile(t *testing.T, db *sql.DB, email, role string, active bool, permissions string) store.Profile {
	t.Helper()

	hash, err := HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	now := time.Now()
	profile, err := store.New(db).CreateProfile(context.Background(), store.CreateProfileParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Profile",
		Role:         role,
		Permissions:  permissions,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating profile: %v", err)
	}
	return profile
}

func TestResolve_NoSession(t *testing.T) {
	r, sm, _, cleanup := newTestResolver(t)
	defer cleanup()

	state := r.Resolve(sessionContext(t, sm))
	if state.IsAuthenticated {
		t.Error("Resolve with no session = authenticated, want unauthenticated")
	}
	if state.Profile != nil {
		t.Error("Resolve with no session returned a profile")
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")
	ctx := sessionContext(t, sm)
	sm.Put(ctx, SessionKeyUserID, profile.ID)

	first := r.Resolve(ctx)
	second := r.Resolve(ctx)

	if !first.IsAuthenticated || !second.IsAuthenticated {
		t.Fatalf("Resolve twice = %v, %v, want both authenticated", first.IsAuthenticated, second.IsAuthenticated)
	}
	if first.Profile.ID != second.Profile.ID {
		t.Errorf("Resolve returned different profiles: %d, %d", first.Profile.ID, second.Profile.ID)
	}
}

func TestResolve_MissingProfileForcesSignOut(t *testing.T) {
	r, sm, _, cleanup := newTestResolver(t)
	defer cleanup()

	ctx := sessionContext(t, sm)
	sm.Put(ctx, SessionKeyUserID, int64(9999))

	state := r.Resolve(ctx)
	if state.IsAuthenticated {
		t.Error("Resolve with orphaned session = authenticated, want unauthenticated")
	}
	if got := sm.GetInt64(ctx, SessionKeyUserID); got != 0 {
		t.Errorf("session user_id after forced sign-out = %d, want 0", got)
	}
}

func TestResolve_InactiveProfileForcesSignOut(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "inactive@example.com", store.RoleEditor, false, "{}")
	ctx := sessionContext(t, sm)
	sm.Put(ctx, SessionKeyUserID, profile.ID)

	state := r.Resolve(ctx)
	if state.IsAuthenticated {
		t.Error("Resolve for inactive profile = authenticated, want unauthenticated")
	}
	if got := sm.GetInt64(ctx, SessionKeyUserID); got != 0 {
		t.Errorf("session user_id after forced sign-out = %d, want 0", got)
	}
}

func TestResolve_UpdatesLastLogin(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")
	if profile.LastLoginAt.Valid {
		t.Fatal("new profile already has last_login_at set")
	}

	ctx := sessionContext(t, sm)
	sm.Put(ctx, SessionKeyUserID, profile.ID)

	if state := r.Resolve(ctx); !state.IsAuthenticated {
		t.Fatal("Resolve = unauthenticated, want authenticated")
	}

	updated, err := store.New(db).GetProfile(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("reloading profile: %v", err)
	}
	if !updated.LastLoginAt.Valid {
		t.Error("last_login_at not set after successful resolution")
	}
}

func TestLogin_Success(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "admin@example.com", store.RoleAdmin, true, "{}")
	ctx := sessionContext(t, sm)

	state, err := r.Login(ctx, profile.Email, testPassword)
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !state.IsAuthenticated {
		t.Error("Login = unauthenticated, want authenticated")
	}
	if got := sm.GetInt64(ctx, SessionKeyUserID); got != profile.ID {
		t.Errorf("session user_id = %d, want %d", got, profile.ID)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	r, sm, _, cleanup := newTestResolver(t)
	defer cleanup()

	_, err := r.Login(sessionContext(t, sm), "nobody@example.com", testPassword)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")

	_, err := r.Login(sessionContext(t, sm), profile.Email, "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "inactive@example.com", store.RoleEditor, false, "{}")
	ctx := sessionContext(t, sm)

	state, err := r.Login(ctx, profile.Email, testPassword)
	if !errors.Is(err, ErrAccountInactive) {
		t.Errorf("Login error = %v, want ErrAccountInactive", err)
	}
	if state.IsAuthenticated {
		t.Error("Login for inactive profile = authenticated, want unauthenticated")
	}
	if got := sm.GetInt64(ctx, SessionKeyUserID); got != 0 {
		t.Errorf("session user_id after inactive login = %d, want 0", got)
	}
}

func TestLogin_InFlightGuard(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")

	// Simulate a pending attempt for the same email.
	if !r.acquire(profile.Email) {
		t.Fatal("acquire failed with no pending attempt")
	}

	_, err := r.Login(sessionContext(t, sm), profile.Email, testPassword)
	if !errors.Is(err, ErrLoginInFlight) {
		t.Errorf("Login error = %v, want ErrLoginInFlight", err)
	}

	r.release(profile.Email)
	if _, err := r.Login(sessionContext(t, sm), profile.Email, testPassword); err != nil {
		t.Errorf("Login after release error: %v", err)
	}
}

func TestLogout(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")
	ctx := sessionContext(t, sm)

	if _, err := r.Login(ctx, profile.Email, testPassword); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if err := r.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if state := r.Resolve(ctx); state.IsAuthenticated {
		t.Error("Resolve after Logout = authenticated, want unauthenticated")
	}
}

func TestSubscribe_Notifications(t *testing.T) {
	r, sm, db, cleanup := newTestResolver(t)
	defer cleanup()

	profile := createProfile(t, db, "editor@example.com", store.RoleEditor, true, "{}")

	var events []Event
	r.Subscribe(func(event Event, state State) {
		events = append(events, event)
	})

	ctx := sessionContext(t, sm)
	if _, err := r.Login(ctx, profile.Email, testPassword); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if err := r.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	want := []Event{EventSignedIn, EventSignedOut}
	if len(events) != len(want) {
		t.Fatalf("received %d events, want %d: %v", len(events), len(want), events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Errorf("event[%d] = %q, want %q", i, events[i], e)
		}
	}
}
