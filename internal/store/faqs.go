package store

import (
	"context"
	"database/sql"
	"time"
)

const faqColumns = `id, question, answer, category, sort_order, is_visible, created_at, updated_at`

func scanFAQ(row *sql.Row) (FAQ, error) {
	var f FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category,
		&f.SortOrder, &f.IsVisible, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func collectFAQs(rows *sql.Rows) ([]FAQ, error) {
	defer rows.Close()
	var items []FAQ
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Category,
			&f.SortOrder, &f.IsVisible, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// GetFAQ fetches a FAQ entry by ID.
func (q *Queries) GetFAQ(ctx context.Context, id int64) (FAQ, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+faqColumns+` FROM faqs WHERE id = ?`, id)
	return scanFAQ(row)
}

// ListFAQs returns all FAQ entries grouped by category in display order.
func (q *Queries) ListFAQs(ctx context.Context) ([]FAQ, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+faqColumns+` FROM faqs ORDER BY category ASC, sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectFAQs(rows)
}

// ListVisibleFAQs returns FAQ entries shown on the public site.
func (q *Queries) ListVisibleFAQs(ctx context.Context) ([]FAQ, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+faqColumns+` FROM faqs WHERE is_visible = 1 ORDER BY category ASC, sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectFAQs(rows)
}

// CreateFAQParams holds fields for creating a FAQ entry.
type CreateFAQParams struct {
	Question  string
	Answer    string
	Category  string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateFAQ inserts a FAQ entry and returns the created row.
func (q *Queries) CreateFAQ(ctx context.Context, arg CreateFAQParams) (FAQ, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO faqs (question, answer, category, sort_order, is_visible, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+faqColumns,
		arg.Question, arg.Answer, arg.Category, arg.SortOrder,
		arg.IsVisible, arg.CreatedAt, arg.UpdatedAt)
	return scanFAQ(row)
}

// UpdateFAQParams holds fields for updating a FAQ entry.
type UpdateFAQParams struct {
	ID        int64
	Question  string
	Answer    string
	Category  string
	SortOrder int64
	IsVisible bool
	UpdatedAt time.Time
}

// UpdateFAQ updates a FAQ entry and returns the updated row.
func (q *Queries) UpdateFAQ(ctx context.Context, arg UpdateFAQParams) (FAQ, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE faqs
		 SET question = ?, answer = ?, category = ?, sort_order = ?, is_visible = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+faqColumns,
		arg.Question, arg.Answer, arg.Category, arg.SortOrder,
		arg.IsVisible, arg.UpdatedAt, arg.ID)
	return scanFAQ(row)
}

// DeleteFAQ removes a FAQ entry by ID.
func (q *Queries) DeleteFAQ(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
	return err
}
