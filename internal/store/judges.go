package store

import (
	"context"
	"database/sql"
	"time"
)

const judgeColumns = `id, name, title, bio, photo_path, sort_order, is_visible, created_at, updated_at`

func scanJudge(row *sql.Row) (Judge, error) {
	var j Judge
	err := row.Scan(&j.ID, &j.Name, &j.Title, &j.Bio, &j.PhotoPath,
		&j.SortOrder, &j.IsVisible, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func collectJudges(rows *sql.Rows) ([]Judge, error) {
	defer rows.Close()
	var items []Judge
	for rows.Next() {
		var j Judge
		if err := rows.Scan(&j.ID, &j.Name, &j.Title, &j.Bio, &j.PhotoPath,
			&j.SortOrder, &j.IsVisible, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

// GetJudge fetches a judge by ID.
func (q *Queries) GetJudge(ctx context.Context, id int64) (Judge, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+judgeColumns+` FROM judges WHERE id = ?`, id)
	return scanJudge(row)
}

// ListJudges returns all judges in display order.
func (q *Queries) ListJudges(ctx context.Context) ([]Judge, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+judgeColumns+` FROM judges ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectJudges(rows)
}

// ListVisibleJudges returns judges shown on the public site, in display order.
func (q *Queries) ListVisibleJudges(ctx context.Context) ([]Judge, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+judgeColumns+` FROM judges WHERE is_visible = 1 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectJudges(rows)
}

// CreateJudgeParams holds fields for creating a judge.
type CreateJudgeParams struct {
	Name      string
	Title     string
	Bio       string
	PhotoPath string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateJudge inserts a judge and returns the created row.
func (q *Queries) CreateJudge(ctx context.Context, arg CreateJudgeParams) (Judge, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO judges (name, title, bio, photo_path, sort_order, is_visible, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+judgeColumns,
		arg.Name, arg.Title, arg.Bio, arg.PhotoPath, arg.SortOrder,
		arg.IsVisible, arg.CreatedAt, arg.UpdatedAt)
	return scanJudge(row)
}

// UpdateJudgeParams holds fields for updating a judge.
type UpdateJudgeParams struct {
	ID        int64
	Name      string
	Title     string
	Bio       string
	PhotoPath string
	SortOrder int64
	IsVisible bool
	UpdatedAt time.Time
}

// UpdateJudge updates a judge and returns the updated row.
func (q *Queries) UpdateJudge(ctx context.Context, arg UpdateJudgeParams) (Judge, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE judges
		 SET name = ?, title = ?, bio = ?, photo_path = ?, sort_order = ?, is_visible = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+judgeColumns,
		arg.Name, arg.Title, arg.Bio, arg.PhotoPath, arg.SortOrder,
		arg.IsVisible, arg.UpdatedAt, arg.ID)
	return scanJudge(row)
}

// DeleteJudge removes a judge by ID.
func (q *Queries) DeleteJudge(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM judges WHERE id = ?`, id)
	return err
}
