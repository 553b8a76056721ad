// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/remila/backstyle/internal/store"
)

// SessionKeyUserID is the session key holding the signed-in profile ID.
const SessionKeyUserID = "user_id"

// Sentinel errors surfaced by Login. ErrInvalidCredentials is the only
// error callers are expected to branch on; everything else is a generic
// failure presented with a neutral message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrLoginInFlight      = errors.New("login already in progress")
)

// Event describes a change pushed to state change subscribers.
type Event string

// Auth state change events.
const (
	EventSignedIn  Event = "signed_in"
	EventSignedOut Event = "signed_out"
)

// State is the normalized outcome of session resolution. Every failure
// branch collapses into {false, nil}; there is no partially-authenticated
// state.
type State struct {
	IsAuthenticated bool
	Profile         *store.Profile
}

// Listener receives auth state change notifications.
type Listener func(Event, State)

// Resolver produces an authoritative authentication state from the session
// store and keeps subscribers informed as it changes. All validation
// failures converge on a forced sign-out.
type Resolver struct {
	sessions *scs.SessionManager
	queries  *store.Queries
	log      *slog.Logger

	mu        sync.Mutex
	inFlight  map[string]struct{}
	listeners []Listener
}

// NewResolver creates a Resolver backed by the given session manager and
// database handle.
func NewResolver(sessions *scs.SessionManager, db *sql.DB, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		sessions: sessions,
		queries:  store.New(db),
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// Subscribe registers a listener invoked synchronously after every sign-in
// and sign-out. Listeners must not block.
func (r *Resolver) Subscribe(fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Resolver) notify(event Event, state State) {
	r.mu.Lock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(event, state)
	}
}

// Resolve validates the current session and returns the authentication
// state. The pipeline is strictly sequential: session, profile row,
// active flag, then a best-effort last-login update. Any hard failure
// destroys the session so a broken session never surfaces as
// authenticated.
func (r *Resolver) Resolve(ctx context.Context) State {
	userID := r.sessions.GetInt64(ctx, SessionKeyUserID)
	if userID == 0 {
		return State{}
	}

	profile, err := r.queries.GetProfile(ctx, userID)
	if err != nil {
		// A session without a profile row is a data-integrity failure,
		// not an unauthenticated visitor.
		if !errors.Is(err, sql.ErrNoRows) {
			r.log.Error("resolving profile", "user_id", userID, "error", err)
		}
		r.forceSignOut(ctx, userID)
		return State{}
	}

	if !profile.IsActive {
		r.log.Warn("session for deactivated profile", "user_id", userID)
		r.forceSignOut(ctx, userID)
		return State{}
	}

	r.touchLastLogin(ctx, profile.ID)

	return State{IsAuthenticated: true, Profile: &profile}
}

// Login exchanges credentials for a session. On success the session token
// is renewed to prevent fixation and subscribers are notified. A second
// concurrent attempt for the same email is rejected with ErrLoginInFlight.
func (r *Resolver) Login(ctx context.Context, email, password string) (State, error) {
	if !r.acquire(email) {
		return State{}, ErrLoginInFlight
	}
	defer r.release(email)

	profile, err := r.queries.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, ErrInvalidCredentials
		}
		return State{}, fmt.Errorf("looking up profile: %w", err)
	}

	ok, err := CheckPassword(password, profile.PasswordHash)
	if err != nil {
		return State{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return State{}, ErrInvalidCredentials
	}

	if !profile.IsActive {
		r.forceSignOut(ctx, profile.ID)
		return State{}, ErrAccountInactive
	}

	if err := r.sessions.RenewToken(ctx); err != nil {
		return State{}, fmt.Errorf("renewing session token: %w", err)
	}
	r.sessions.Put(ctx, SessionKeyUserID, profile.ID)

	// Transparent parameter upgrade: login is the only moment the
	// plaintext is available, so stale hashes are replaced here.
	if NeedsRehash(profile.PasswordHash) {
		r.rehash(ctx, &profile, password)
	}

	r.touchLastLogin(ctx, profile.ID)

	state := State{IsAuthenticated: true, Profile: &profile}
	r.notify(EventSignedIn, state)
	return state, nil
}

// Logout destroys the current session and notifies subscribers. The state
// is reported as signed out even if session destruction returns an error.
func (r *Resolver) Logout(ctx context.Context) error {
	err := r.sessions.Destroy(ctx)
	r.notify(EventSignedOut, State{})
	if err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// forceSignOut terminates the session after a validation failure.
// Destruction errors are logged only: the caller reports unauthenticated
// either way.
func (r *Resolver) forceSignOut(ctx context.Context, userID int64) {
	if err := r.sessions.Destroy(ctx); err != nil {
		r.log.Error("forced sign-out failed", "user_id", userID, "error", err)
	}
	r.notify(EventSignedOut, State{})
}

// touchLastLogin records the resolution time. This is the only store call
// in the authentication path allowed to fail silently.
func (r *Resolver) touchLastLogin(ctx context.Context, userID int64) {
	err := r.queries.UpdateProfileLastLogin(ctx, store.UpdateProfileLastLoginParams{
		ID:          userID,
		LastLoginAt: time.Now(),
	})
	if err != nil {
		r.log.Warn("updating last_login_at", "user_id", userID, "error", err)
	}
}

// rehash re-encodes the password with the current Argon2 parameters.
// Failures are logged only; the login itself already succeeded.
func (r *Resolver) rehash(ctx context.Context, profile *store.Profile, password string) {
	newHash, err := HashPassword(password)
	if err != nil {
		r.log.Warn("rehashing password", "user_id", profile.ID, "error", err)
		return
	}
	err = r.queries.UpdateProfilePassword(ctx, store.UpdateProfilePasswordParams{
		ID:           profile.ID,
		PasswordHash: newHash,
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		r.log.Warn("storing rehashed password", "user_id", profile.ID, "error", err)
		return
	}
	profile.PasswordHash = newHash
}

func (r *Resolver) acquire(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[email]; busy {
		return false
	}
	r.inFlight[email] = struct{}{}
	return true
}

func (r *Resolver) release(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, email)
}
