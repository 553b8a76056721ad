// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic background jobs: publishing
// scheduled news, purging aged analytics and audit data, and refreshing
// the GeoIP database.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/remila/backstyle/internal/cache"
	"github.com/remila/backstyle/internal/geoip"
	"github.com/remila/backstyle/internal/store"
	"github.com/remila/backstyle/internal/util"
)

// Retention windows for purge jobs.
const (
	pageViewRetention = 90 * 24 * time.Hour
	eventRetention    = 180 * 24 * time.Hour
)

// Scheduler owns the cron runner and its job dependencies.
type Scheduler struct {
	db     *sql.DB
	cache  *cache.Manager
	geo    *geoip.Lookup
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler. The cache manager and GeoIP lookup are optional;
// jobs that need them are skipped when nil.
func New(db *sql.DB, cacheManager *cache.Manager, geo *geoip.Lookup, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:     db,
		cache:  cacheManager,
		geo:    geo,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers all jobs and begins the cron runner.
func (s *Scheduler) Start() error {
	// Promote due scheduled news every minute.
	if _, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.publishDueNews(); err != nil {
			s.logger.Error("failed to publish scheduled news", "error", err)
		}
	}); err != nil {
		return err
	}

	// Purge aged page views and audit events nightly.
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		s.purgeAgedData()
	}); err != nil {
		return err
	}

	// Pick up GeoIP database updates weekly.
	if s.geo != nil && s.geo.IsEnabled() {
		if _, err := s.cron.AddFunc("0 4 * * 1", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("failed to reload GeoIP database", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// publishDueNews promotes scheduled news whose publish time has passed.
func (s *Scheduler) publishDueNews() error {
	ctx := context.Background()
	queries := store.New(s.db)

	now := time.Now()
	due, err := queries.ListScheduledNewsDue(ctx, now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	s.logger.Info("publishing scheduled news", "count", len(due))

	published := false
	for _, n := range due {
		if err := queries.PublishNews(ctx, store.PublishNewsParams{ID: n.ID, PublishedAt: now}); err != nil {
			s.logger.Error("failed to publish scheduled news item",
				"news_id", n.ID,
				"title", n.Title,
				"error", err,
			)
			continue
		}
		published = true
		s.logEvent(ctx, queries, n, now)
		s.logger.Info("published scheduled news item",
			"news_id", n.ID,
			"title", n.Title,
			"publish_at", n.PublishAt.Time,
		)
	}

	if published && s.cache != nil {
		s.cache.Invalidate(ctx, cache.KeyPrefixNews)
	}
	return nil
}

// logEvent records the automatic publication in the audit log.
func (s *Scheduler) logEvent(ctx context.Context, queries *store.Queries, n store.News, now time.Time) {
	meta, _ := json.Marshal(map[string]any{
		"news_id":      n.ID,
		"slug":         n.Slug,
		"publish_at":   n.PublishAt.Time.Format(time.RFC3339),
		"published_at": now.Format(time.RFC3339),
	})

	err := queries.CreateEvent(ctx, store.CreateEventParams{
		CreatedAt: now,
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryContent,
		Message:   "News published automatically by scheduler: " + n.Title,
		Meta:      util.NullStringFromValue(string(meta)),
	})
	if err != nil {
		s.logger.Warn("failed to log scheduled publish event", "error", err)
	}
}

// purgeAgedData removes page views and audit events past their retention
// windows.
func (s *Scheduler) purgeAgedData() {
	ctx := context.Background()
	queries := store.New(s.db)
	now := time.Now()

	if n, err := queries.PurgePageViewsBefore(ctx, now.Add(-pageViewRetention)); err != nil {
		s.logger.Error("failed to purge page views", "error", err)
	} else if n > 0 {
		s.logger.Info("purged aged page views", "rows", n)
	}

	if n, err := queries.PurgeEventsBefore(ctx, now.Add(-eventRetention)); err != nil {
		s.logger.Error("failed to purge audit events", "error", err)
	} else if n > 0 {
		s.logger.Info("purged aged audit events", "rows", n)
	}
}
