package store

import (
	"context"
	"database/sql"
	"time"
)

const newsColumns = `id, title, slug, body, status, publish_at, published_at, author_id, created_at, updated_at`

func scanNews(row *sql.Row) (News, error) {
	var n News
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Body, &n.Status,
		&n.PublishAt, &n.PublishedAt, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func collectNews(rows *sql.Rows) ([]News, error) {
	defer rows.Close()
	var items []News
	for rows.Next() {
		var n News
		if err := rows.Scan(&n.ID, &n.Title, &n.Slug, &n.Body, &n.Status,
			&n.PublishAt, &n.PublishedAt, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNews fetches a news item by ID.
func (q *Queries) GetNews(ctx context.Context, id int64) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE id = ?`, id)
	return scanNews(row)
}

// GetNewsBySlug fetches a news item by its URL slug.
func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news WHERE slug = ?`, slug)
	return scanNews(row)
}

// ListNewsParams holds pagination for listing all news (admin view).
type ListNewsParams struct {
	Limit  int64
	Offset int64
}

// ListNews returns news items ordered newest first, regardless of status.
func (q *Queries) ListNews(ctx context.Context, arg ListNewsParams) ([]News, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectNews(rows)
}

// ListPublishedNewsParams holds pagination for the public news listing.
type ListPublishedNewsParams struct {
	Limit  int64
	Offset int64
}

// ListPublishedNews returns published news items, newest publication first.
func (q *Queries) ListPublishedNews(ctx context.Context, arg ListPublishedNewsParams) ([]News, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news
		 WHERE status = 'published'
		 ORDER BY published_at DESC LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectNews(rows)
}

// ListScheduledNewsDue returns scheduled news whose publish time has passed.
func (q *Queries) ListScheduledNewsDue(ctx context.Context, now time.Time) ([]News, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news
		 WHERE status = 'scheduled' AND publish_at IS NOT NULL AND publish_at <= ?
		 ORDER BY publish_at ASC`, now)
	if err != nil {
		return nil, err
	}
	return collectNews(rows)
}

// CountNews returns the total number of news items.
func (q *Queries) CountNews(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&count)
	return count, err
}

// CountPublishedNews returns the number of published news items.
func (q *Queries) CountPublishedNews(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news WHERE status = 'published'`).Scan(&count)
	return count, err
}

// CreateNewsParams holds fields for creating a news item.
type CreateNewsParams struct {
	Title       string
	Slug        string
	Body        string
	Status      string
	PublishAt   sql.NullTime
	PublishedAt sql.NullTime
	AuthorID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateNews inserts a news item and returns the created row.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO news (title, slug, body, status, publish_at, published_at, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+newsColumns,
		arg.Title, arg.Slug, arg.Body, arg.Status, arg.PublishAt, arg.PublishedAt,
		arg.AuthorID, arg.CreatedAt, arg.UpdatedAt)
	return scanNews(row)
}

// UpdateNewsParams holds fields for updating a news item.
type UpdateNewsParams struct {
	ID        int64
	Title     string
	Slug      string
	Body      string
	Status    string
	PublishAt sql.NullTime
	UpdatedAt time.Time
}

// UpdateNews updates mutable news fields and returns the updated row.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE news
		 SET title = ?, slug = ?, body = ?, status = ?, publish_at = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+newsColumns,
		arg.Title, arg.Slug, arg.Body, arg.Status, arg.PublishAt, arg.UpdatedAt, arg.ID)
	return scanNews(row)
}

// PublishNewsParams marks a news item as published at the given time.
type PublishNewsParams struct {
	ID          int64
	PublishedAt time.Time
}

// PublishNews transitions a news item to published and stamps the publication time.
func (q *Queries) PublishNews(ctx context.Context, arg PublishNewsParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE news SET status = 'published', published_at = ?, updated_at = ? WHERE id = ?`,
		arg.PublishedAt, arg.PublishedAt, arg.ID)
	return err
}

// DeleteNews removes a news item by ID.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	return err
}
