package store

import (
	"context"
	"database/sql"
	"time"
)

// CreatePageViewParams holds fields for recording a page view.
type CreatePageViewParams struct {
	Path      string
	Referrer  string
	IPHash    string
	Country   string
	Browser   string
	OS        string
	Device    string
	IsBot     bool
	CreatedAt time.Time
}

// CreatePageView inserts a page view record.
func (q *Queries) CreatePageView(ctx context.Context, arg CreatePageViewParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO page_views (path, referrer, ip_hash, country, browser, os, device, is_bot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Path, arg.Referrer, arg.IPHash, arg.Country, arg.Browser,
		arg.OS, arg.Device, arg.IsBot, arg.CreatedAt)
	return err
}

// CountPageViewsSince returns the number of non-bot page views since the cutoff.
func (q *Queries) CountPageViewsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_views WHERE is_bot = 0 AND created_at >= ?`, since).Scan(&count)
	return count, err
}

// CountUniqueVisitorsSince returns distinct non-bot visitors (by IP hash) since the cutoff.
func (q *Queries) CountUniqueVisitorsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT ip_hash) FROM page_views WHERE is_bot = 0 AND created_at >= ?`, since).Scan(&count)
	return count, err
}

// PageViewCount pairs a grouping key with its view count.
type PageViewCount struct {
	Key   string
	Count int64
}

// TopPagesParams holds parameters for the most-viewed pages query.
type TopPagesParams struct {
	Since time.Time
	Limit int64
}

// TopPages returns the most viewed paths since the cutoff.
func (q *Queries) TopPages(ctx context.Context, arg TopPagesParams) ([]PageViewCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS views FROM page_views
		 WHERE is_bot = 0 AND created_at >= ?
		 GROUP BY path ORDER BY views DESC LIMIT ?`,
		arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectPageViewCounts(rows)
}

// TopCountriesParams holds parameters for the top-countries query.
type TopCountriesParams struct {
	Since time.Time
	Limit int64
}

// TopCountries returns visitor counts grouped by country since the cutoff.
func (q *Queries) TopCountries(ctx context.Context, arg TopCountriesParams) ([]PageViewCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT country, COUNT(*) AS views FROM page_views
		 WHERE is_bot = 0 AND created_at >= ? AND country != ''
		 GROUP BY country ORDER BY views DESC LIMIT ?`,
		arg.Since, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectPageViewCounts(rows)
}

// DailyViewCount pairs a calendar day with its view count.
type DailyViewCount struct {
	Day   string
	Count int64
}

// DailyPageViews returns per-day non-bot view counts since the cutoff.
func (q *Queries) DailyPageViews(ctx context.Context, since time.Time) ([]DailyViewCount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT date(created_at) AS day, COUNT(*) FROM page_views
		 WHERE is_bot = 0 AND created_at >= ?
		 GROUP BY day ORDER BY day ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DailyViewCount
	for rows.Next() {
		var d DailyViewCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// PurgePageViewsBefore deletes page views older than the cutoff and returns
// the number of rows removed.
func (q *Queries) PurgePageViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM page_views WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func collectPageViewCounts(rows *sql.Rows) ([]PageViewCount, error) {
	defer rows.Close()
	var items []PageViewCount
	for rows.Next() {
		var c PageViewCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
