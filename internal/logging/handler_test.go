package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/testutil"
)

// discardHandler accepts everything and writes nothing.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

func listEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestHandlePersistsErrors(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Error("photo processing failed", "entry_id", 42)

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events; want 1", len(events))
	}
	e := events[0]
	if e.Level != store.EventLevelError {
		t.Errorf("level = %q; want error", e.Level)
	}
	if e.Message != "photo processing failed" {
		t.Errorf("message = %q", e.Message)
	}
	if !e.Meta.Valid || !strings.Contains(e.Meta.String, `"entry_id":"42"`) {
		t.Errorf("meta = %+v; want entry_id attribute", e.Meta)
	}
}

func TestHandleSkipsInfo(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Info("routine message")

	if events := listEvents(t, store.New(db)); len(events) != 0 {
		t.Fatalf("info record persisted: %+v", events)
	}
}

func TestHandleExplicitCategory(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Warn("rate limit exceeded", "category", store.EventCategoryAuth)

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("got %d events; want 1", len(events))
	}
	if events[0].Category != store.EventCategoryAuth {
		t.Errorf("category = %q; want auth", events[0].Category)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"login failed for account", store.EventCategoryAuth},
		{"news publish error", store.EventCategoryContent},
		{"entry photo rejected", store.EventCategoryEntry},
		{"profile update failed", store.EventCategoryUser},
		{"setting write conflict", store.EventCategorySettings},
		{"disk almost full", store.EventCategorySystem},
	}
	for _, tt := range tests {
		if got := inferCategory(tt.message); got != tt.want {
			t.Errorf("inferCategory(%q) = %q; want %q", tt.message, got, tt.want)
		}
	}
}
