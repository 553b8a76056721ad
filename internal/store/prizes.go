package store

import (
	"context"
	"database/sql"
	"time"
)

const prizeColumns = `id, rank_label, title, description, image_path, sort_order, is_visible, created_at, updated_at`

func scanPrize(row *sql.Row) (Prize, error) {
	var p Prize
	err := row.Scan(&p.ID, &p.RankLabel, &p.Title, &p.Description, &p.ImagePath,
		&p.SortOrder, &p.IsVisible, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPrizes(rows *sql.Rows) ([]Prize, error) {
	defer rows.Close()
	var items []Prize
	for rows.Next() {
		var p Prize
		if err := rows.Scan(&p.ID, &p.RankLabel, &p.Title, &p.Description, &p.ImagePath,
			&p.SortOrder, &p.IsVisible, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// GetPrize fetches a prize by ID.
func (q *Queries) GetPrize(ctx context.Context, id int64) (Prize, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+prizeColumns+` FROM prizes WHERE id = ?`, id)
	return scanPrize(row)
}

// ListPrizes returns all prizes in display order.
func (q *Queries) ListPrizes(ctx context.Context) ([]Prize, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+prizeColumns+` FROM prizes ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectPrizes(rows)
}

// ListVisiblePrizes returns prizes shown on the public site, in display order.
func (q *Queries) ListVisiblePrizes(ctx context.Context) ([]Prize, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+prizeColumns+` FROM prizes WHERE is_visible = 1 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectPrizes(rows)
}

// CreatePrizeParams holds fields for creating a prize.
type CreatePrizeParams struct {
	RankLabel   string
	Title       string
	Description string
	ImagePath   string
	SortOrder   int64
	IsVisible   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePrize inserts a prize and returns the created row.
func (q *Queries) CreatePrize(ctx context.Context, arg CreatePrizeParams) (Prize, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO prizes (rank_label, title, description, image_path, sort_order, is_visible, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+prizeColumns,
		arg.RankLabel, arg.Title, arg.Description, arg.ImagePath,
		arg.SortOrder, arg.IsVisible, arg.CreatedAt, arg.UpdatedAt)
	return scanPrize(row)
}

// UpdatePrizeParams holds fields for updating a prize.
type UpdatePrizeParams struct {
	ID          int64
	RankLabel   string
	Title       string
	Description string
	ImagePath   string
	SortOrder   int64
	IsVisible   bool
	UpdatedAt   time.Time
}

// UpdatePrize updates a prize and returns the updated row.
func (q *Queries) UpdatePrize(ctx context.Context, arg UpdatePrizeParams) (Prize, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE prizes
		 SET rank_label = ?, title = ?, description = ?, image_path = ?, sort_order = ?, is_visible = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+prizeColumns,
		arg.RankLabel, arg.Title, arg.Description, arg.ImagePath,
		arg.SortOrder, arg.IsVisible, arg.UpdatedAt, arg.ID)
	return scanPrize(row)
}

// DeletePrize removes a prize by ID.
func (q *Queries) DeletePrize(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM prizes WHERE id = ?`, id)
	return err
}
