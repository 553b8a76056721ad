package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/remila/backstyle/internal/store"
)

func TestListEvents(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	q := store.New(db)
	ctx := context.Background()
	for _, category := range []string{store.EventCategoryAuth, store.EventCategoryContent} {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			CreatedAt: time.Now(),
			Level:     store.EventLevelInfo,
			Category:  category,
			Message:   category + " event",
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/events", nil)
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.ListEvents(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var events []EventResponse
	decodeData(t, w.Body.Bytes(), &events)
	if len(events) != 2 {
		t.Fatalf("got %d events; want 2", len(events))
	}
	// Newest first.
	if events[0].Category != store.EventCategoryContent {
		t.Errorf("first event category = %q; want content", events[0].Category)
	}
}

func TestListEventsCategoryFilter(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	q := store.New(db)
	ctx := context.Background()
	for _, category := range []string{store.EventCategoryAuth, store.EventCategoryContent} {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			CreatedAt: time.Now(),
			Level:     store.EventLevelInfo,
			Category:  category,
			Message:   category + " event",
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/events?category=auth", nil)
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.ListEvents(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var events []EventResponse
	decodeData(t, w.Body.Bytes(), &events)
	if len(events) != 1 || events[0].Category != store.EventCategoryAuth {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}
