// Package logging bridges slog into the persistent event log. Warnings
// and errors emitted anywhere in the application land in the events table
// so administrators can review them without shell access to the server.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/remila/backstyle/internal/store"
)

// categoryKeywords maps message substrings to event log categories, used
// when a record carries no explicit "category" attribute.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{store.EventCategoryAuth, []string{"auth", "login", "logout", "sign-out"}},
	{store.EventCategoryContent, []string{"news", "judge", "prize", "sponsor", "faq"}},
	{store.EventCategoryEntry, []string{"entry"}},
	{store.EventCategoryUser, []string{"profile", "user"}},
	{store.EventCategorySettings, []string{"setting"}},
}

// EventLogHandler decorates another slog.Handler: every record passes
// through to the wrapped handler, and records at the threshold level or
// above are additionally persisted to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	minimum slog.Level
}

// NewEventLogHandler wraps inner so that WARN and ERROR records are also
// written to the event log in db.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		minimum: slog.LevelWarn,
	}
}

func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.inner.Handle(ctx, r)
	if r.Level >= h.minimum {
		h.persist(r)
	}
	return err
}

func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

// persist writes the record to the events table. It deliberately uses a
// background context: a cancelled request must not lose its audit trail.
// Insert failures are swallowed; logging must never take the app down.
func (h *EventLogHandler) persist(r slog.Record) {
	category, meta := splitAttrs(r)

	var metaJSON sql.NullString
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = sql.NullString{String: string(b), Valid: true}
		}
	}
	if category == "" {
		category = inferCategory(r.Message)
	}

	_ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		CreatedAt: r.Time,
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Meta:      metaJSON,
	})
}

// splitAttrs pulls the "category" attribute out of the record and returns
// the remaining attributes as a flat string map.
func splitAttrs(r slog.Record) (string, map[string]string) {
	var category string
	meta := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
		} else {
			meta[a.Key] = a.Value.String()
		}
		return true
	})
	return category, meta
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return store.EventLevelError
	case level >= slog.LevelWarn:
		return store.EventLevelWarning
	default:
		return store.EventLevelInfo
	}
}

// inferCategory guesses an event category from the log message.
func inferCategory(message string) string {
	message = strings.ToLower(message)
	for _, kw := range categoryKeywords {
		for _, w := range kw.words {
			if strings.Contains(message, w) {
				return kw.category
			}
		}
	}
	return store.EventCategorySystem
}
