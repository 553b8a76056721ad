package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/testutil"
)

func testQueries(t *testing.T) (*store.Queries, *sql.DB) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db), db
}

func TestNewsLifecycle(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	n, err := q.CreateNews(ctx, store.CreateNewsParams{
		Title:     "Contest Opens",
		Slug:      "contest-opens",
		Body:      "Entries are now accepted.",
		Status:    store.NewsStatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	if n.ID == 0 {
		t.Fatal("expected assigned ID from insert")
	}

	got, err := q.GetNewsBySlug(ctx, "contest-opens")
	if err != nil {
		t.Fatalf("GetNewsBySlug: %v", err)
	}
	if got.ID != n.ID || got.Title != "Contest Opens" {
		t.Errorf("unexpected row: %+v", got)
	}

	if err := q.PublishNews(ctx, store.PublishNewsParams{ID: n.ID, PublishedAt: time.Now()}); err != nil {
		t.Fatalf("PublishNews: %v", err)
	}
	got, err = q.GetNews(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if got.Status != store.NewsStatusPublished || !got.PublishedAt.Valid {
		t.Errorf("expected published row with timestamp, got %+v", got)
	}

	if err := q.DeleteNews(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNews: %v", err)
	}
	if _, err := q.GetNews(ctx, n.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestNewsSlugUnique(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	params := store.CreateNewsParams{
		Title:     "First",
		Slug:      "dup",
		Status:    store.NewsStatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := q.CreateNews(ctx, params); err != nil {
		t.Fatalf("CreateNews: %v", err)
	}

	params.Title = "Second"
	if _, err := q.CreateNews(ctx, params); err == nil {
		t.Error("expected unique constraint failure on duplicate slug")
	}
}

func TestListScheduledNewsDue(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()
	now := time.Now()

	mk := func(slug string, publishAt time.Time) {
		t.Helper()
		_, err := q.CreateNews(ctx, store.CreateNewsParams{
			Title:     slug,
			Slug:      slug,
			Status:    store.NewsStatusScheduled,
			PublishAt: sql.NullTime{Time: publishAt, Valid: true},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateNews: %v", err)
		}
	}
	mk("past-due", now.Add(-time.Hour))
	mk("not-yet", now.Add(time.Hour))

	due, err := q.ListScheduledNewsDue(ctx, now)
	if err != nil {
		t.Fatalf("ListScheduledNewsDue: %v", err)
	}
	if len(due) != 1 || due[0].Slug != "past-due" {
		t.Errorf("unexpected due list: %+v", due)
	}
}

func TestListPublishedNewsExcludesDrafts(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()
	now := time.Now()

	for _, row := range []struct {
		slug   string
		status string
	}{
		{"live", store.NewsStatusPublished},
		{"pending", store.NewsStatusDraft},
		{"gone", store.NewsStatusArchived},
	} {
		params := store.CreateNewsParams{
			Title:     row.slug,
			Slug:      row.slug,
			Status:    row.status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if row.status == store.NewsStatusPublished {
			params.PublishedAt = sql.NullTime{Time: now, Valid: true}
		}
		if _, err := q.CreateNews(ctx, params); err != nil {
			t.Fatalf("CreateNews: %v", err)
		}
	}

	items, err := q.ListPublishedNews(ctx, store.ListPublishedNewsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListPublishedNews: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "live" {
		t.Errorf("unexpected published list: %+v", items)
	}

	total, err := q.CountPublishedNews(ctx)
	if err != nil {
		t.Fatalf("CountPublishedNews: %v", err)
	}
	if total != 1 {
		t.Errorf("CountPublishedNews = %d; want 1", total)
	}
}

func TestSettingUpsertReplaces(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	for _, value := range []string{"2026", "2027"} {
		err := q.UpsertSetting(ctx, store.UpsertSettingParams{
			Key:       "contest_year",
			Value:     value,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("UpsertSetting: %v", err)
		}
	}

	s, err := q.GetSetting(ctx, "contest_year")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if s.Value != "2027" {
		t.Errorf("value = %q; want 2027", s.Value)
	}

	settings, err := q.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings: %v", err)
	}
	if len(settings) != 1 {
		t.Errorf("got %d settings; want 1 after upsert over same key", len(settings))
	}
}

func TestEntryStatusTransitions(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	e, err := q.CreateEntry(ctx, store.CreateEntryParams{
		Title:       "Sleek Chignon",
		StylistName: "Stylist",
		PhotoPath:   "entries/x/photo.jpg",
		ThumbPath:   "entries/x/thumb/photo.jpg",
		Status:      store.EntryStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	approved, err := q.ListApprovedEntries(ctx)
	if err != nil {
		t.Fatalf("ListApprovedEntries: %v", err)
	}
	if len(approved) != 0 {
		t.Errorf("pending entry visible in approved list: %+v", approved)
	}

	err = q.UpdateEntryStatus(ctx, store.UpdateEntryStatusParams{
		ID:        e.ID,
		Status:    store.EntryStatusApproved,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateEntryStatus: %v", err)
	}

	approved, err = q.ListApprovedEntries(ctx)
	if err != nil {
		t.Fatalf("ListApprovedEntries: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != e.ID {
		t.Errorf("unexpected approved list: %+v", approved)
	}

	count, err := q.CountEntriesByStatus(ctx, store.EntryStatusApproved)
	if err != nil {
		t.Fatalf("CountEntriesByStatus: %v", err)
	}
	if count != 1 {
		t.Errorf("approved count = %d; want 1", count)
	}
}

func TestProfileLastLogin(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	p, err := q.CreateProfile(ctx, store.CreateProfileParams{
		Email:        "staff@example.com",
		PasswordHash: "hash",
		Name:         "Staff",
		Role:         store.RoleEditor,
		Permissions:  "{}",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if p.LastLoginAt.Valid {
		t.Error("fresh profile should have no last login")
	}

	when := time.Now()
	err = q.UpdateProfileLastLogin(ctx, store.UpdateProfileLastLoginParams{ID: p.ID, LastLoginAt: when})
	if err != nil {
		t.Fatalf("UpdateProfileLastLogin: %v", err)
	}

	got, err := q.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !got.LastLoginAt.Valid {
		t.Error("expected last login to be recorded")
	}
}

func TestEventPurge(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()
	now := time.Now()

	mk := func(createdAt time.Time, message string) {
		t.Helper()
		err := q.CreateEvent(ctx, store.CreateEventParams{
			CreatedAt: createdAt,
			Level:     store.EventLevelInfo,
			Category:  store.EventCategoryAuth,
			Message:   message,
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	mk(now.Add(-48*time.Hour), "old event")
	mk(now, "recent event")

	purged, err := q.PurgeEventsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeEventsBefore: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d; want 1", purged)
	}

	events, err := q.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Message != "recent event" {
		t.Errorf("unexpected surviving events: %+v", events)
	}
}

func TestEventCategoryFilter(t *testing.T) {
	q, _ := testQueries(t)
	ctx := context.Background()

	for _, category := range []string{store.EventCategoryAuth, store.EventCategoryContent} {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			CreatedAt: time.Now(),
			Level:     store.EventLevelInfo,
			Category:  category,
			Message:   category + " happened",
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	events, err := q.ListEvents(ctx, store.ListEventsParams{Category: store.EventCategoryAuth, Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Category != store.EventCategoryAuth {
		t.Errorf("unexpected filtered events: %+v", events)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	_, db := testQueries(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.Seed(ctx, db, "stand-in-hash"); err != nil {
			t.Fatalf("Seed run %d: %v", i+1, err)
		}
	}

	count, err := store.New(db).CountProfiles(ctx)
	if err != nil {
		t.Fatalf("CountProfiles: %v", err)
	}
	if count != 1 {
		t.Errorf("profiles after double seed = %d; want 1", count)
	}
}
