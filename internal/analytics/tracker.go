// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics records page views for the public site and aggregates
// them into the KPI figures shown in the admin panel. Visitor IPs are
// stored only as salted hashes.
package analytics

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/remila/backstyle/internal/geoip"
	"github.com/remila/backstyle/internal/store"
)

// Tracker records page views and serves KPI aggregates.
type Tracker struct {
	queries *store.Queries
	geo     *geoip.Lookup
	salt    string
	log     *slog.Logger
}

// NewTracker creates a Tracker. The salt is mixed into visitor IP hashes;
// it should be stable across restarts so unique-visitor counts stay
// meaningful. geo may be nil to disable country resolution.
func NewTracker(db *sql.DB, geo *geoip.Lookup, salt string, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		queries: store.New(db),
		geo:     geo,
		salt:    salt,
		log:     log,
	}
}

// View describes one page visit to record.
type View struct {
	Path      string
	Referrer  string
	IP        string
	UserAgent string
}

// Record stores a page view. Failures are logged and swallowed: analytics
// must never break page delivery.
func (t *Tracker) Record(ctx context.Context, v View) {
	ua := useragent.Parse(v.UserAgent)

	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	osName := ua.OS
	if osName == "" {
		osName = "Unknown"
	}

	var device string
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}

	var country string
	if t.geo != nil {
		country = t.geo.LookupCountry(v.IP)
	}

	err := t.queries.CreatePageView(ctx, store.CreatePageViewParams{
		Path:      v.Path,
		Referrer:  v.Referrer,
		IPHash:    t.hashIP(v.IP),
		Country:   country,
		Browser:   browser,
		OS:        osName,
		Device:    device,
		IsBot:     ua.Bot,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.log.Warn("recording page view", "path", v.Path, "error", err)
	}
}

func (t *Tracker) hashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(t.salt + ip))
	return hex.EncodeToString(sum[:])
}

// Summary holds the KPI figures for a reporting window.
type Summary struct {
	Days           int                   `json:"days"`
	TotalViews     int64                 `json:"totalViews"`
	UniqueVisitors int64                 `json:"uniqueVisitors"`
	TopPages       []store.PageViewCount `json:"topPages"`
	TopCountries   []store.PageViewCount `json:"topCountries"`
	DailyViews     []store.DailyViewCount `json:"dailyViews"`
}

// Summarize aggregates page views over the past days into a Summary.
func (t *Tracker) Summarize(ctx context.Context, days int) (Summary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	total, err := t.queries.CountPageViewsSince(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	unique, err := t.queries.CountUniqueVisitorsSince(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	topPages, err := t.queries.TopPages(ctx, store.TopPagesParams{Since: since, Limit: 10})
	if err != nil {
		return Summary{}, err
	}
	topCountries, err := t.queries.TopCountries(ctx, store.TopCountriesParams{Since: since, Limit: 10})
	if err != nil {
		return Summary{}, err
	}
	daily, err := t.queries.DailyPageViews(ctx, since)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Days:           days,
		TotalViews:     total,
		UniqueVisitors: unique,
		TopPages:       topPages,
		TopCountries:   topCountries,
		DailyViews:     daily,
	}, nil
}
