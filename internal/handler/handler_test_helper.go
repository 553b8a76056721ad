package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/remila/backstyle/internal/analytics"
	"github.com/remila/backstyle/internal/auth"
	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/geoip"
	"github.com/remila/backstyle/internal/imaging"
	"github.com/remila/backstyle/internal/middleware"
	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/testutil"
)

// newTestHandler builds a Handler over a migrated temp database with an
// in-memory cache, a disabled GeoIP lookup and a temp uploads directory.
func newTestHandler(t *testing.T) (*Handler, *sql.DB, *scs.SessionManager) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	geo, err := geoip.NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}

	backend := cache.NewMemory(cache.MemoryOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	h := NewHandler(Options{
		DB:         db,
		Resolver:   auth.NewResolver(sm, db, testutil.TestLoggerSilent()),
		Cache:      cache.NewManagerWithBackend(backend, time.Minute, testutil.TestLoggerSilent()),
		Tracker:    analytics.NewTracker(db, geo, "test-salt", testutil.TestLoggerSilent()),
		Images:     imaging.NewProcessor(t.TempDir()),
		Protection: middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
	})
	return h, db, sm
}

// requestWithSession loads an empty session into the request context, as
// the scs middleware would.
func requestWithSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return r.WithContext(ctx)
}

// createTestProfile inserts a staff account and returns it.
func createTestProfile(t *testing.T, db *sql.DB, email, role, permissions string) store.Profile {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	p, err := store.New(db).CreateProfile(context.Background(), store.CreateProfileParams{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Person",
		Role:         role,
		Permissions:  permissions,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return p
}

// requestWithAuthState attaches a resolved auth state, as the session
// middleware would.
func requestWithAuthState(r *http.Request, profile *store.Profile) *http.Request {
	state := auth.State{}
	if profile != nil {
		state = auth.State{IsAuthenticated: true, Profile: profile}
	}
	ctx := context.WithValue(r.Context(), middleware.ContextKeyAuthState, state)
	return r.WithContext(ctx)
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// decodeData decodes the data field of a wrapped API response into dest.
func decodeData(t *testing.T, body []byte, dest any) {
	t.Helper()

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshaling response envelope: %v", err)
	}
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("unmarshaling response data: %v", err)
	}
}
