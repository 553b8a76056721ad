package store

import (
	"context"
	"database/sql"
	"time"
)

const entryColumns = `id, title, stylist_name, salon_name, description, photo_path, thumb_path, status, sort_order, created_at, updated_at`

func scanEntry(row *sql.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Title, &e.StylistName, &e.SalonName, &e.Description,
		&e.PhotoPath, &e.ThumbPath, &e.Status, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.StylistName, &e.SalonName, &e.Description,
			&e.PhotoPath, &e.ThumbPath, &e.Status, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// GetEntry fetches a gallery entry by ID.
func (q *Queries) GetEntry(ctx context.Context, id int64) (Entry, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	return scanEntry(row)
}

// ListEntriesParams holds filters for listing entries (admin view).
type ListEntriesParams struct {
	Status string // empty means all statuses
	Limit  int64
	Offset int64
}

// ListEntries returns entries optionally filtered by status, in display order.
func (q *Queries) ListEntries(ctx context.Context, arg ListEntriesParams) ([]Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if arg.Status == "" {
		rows, err = q.db.QueryContext(ctx,
			`SELECT `+entryColumns+` FROM entries ORDER BY sort_order ASC, id DESC LIMIT ? OFFSET ?`,
			arg.Limit, arg.Offset)
	} else {
		rows, err = q.db.QueryContext(ctx,
			`SELECT `+entryColumns+` FROM entries WHERE status = ? ORDER BY sort_order ASC, id DESC LIMIT ? OFFSET ?`,
			arg.Status, arg.Limit, arg.Offset)
	}
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ListApprovedEntries returns approved entries for the public gallery.
func (q *Queries) ListApprovedEntries(ctx context.Context) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE status = 'approved' ORDER BY sort_order ASC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// CountEntriesByStatus returns the number of entries with the given status.
func (q *Queries) CountEntriesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE status = ?`, status).Scan(&count)
	return count, err
}

// CreateEntryParams holds fields for creating a gallery entry.
type CreateEntryParams struct {
	Title       string
	StylistName string
	SalonName   string
	Description string
	PhotoPath   string
	ThumbPath   string
	Status      string
	SortOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateEntry inserts a gallery entry and returns the created row.
func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO entries (title, stylist_name, salon_name, description, photo_path, thumb_path, status, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+entryColumns,
		arg.Title, arg.StylistName, arg.SalonName, arg.Description, arg.PhotoPath,
		arg.ThumbPath, arg.Status, arg.SortOrder, arg.CreatedAt, arg.UpdatedAt)
	return scanEntry(row)
}

// UpdateEntryParams holds fields for updating a gallery entry.
type UpdateEntryParams struct {
	ID          int64
	Title       string
	StylistName string
	SalonName   string
	Description string
	SortOrder   int64
	UpdatedAt   time.Time
}

// UpdateEntry updates entry metadata and returns the updated row.
func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE entries
		 SET title = ?, stylist_name = ?, salon_name = ?, description = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+entryColumns,
		arg.Title, arg.StylistName, arg.SalonName, arg.Description,
		arg.SortOrder, arg.UpdatedAt, arg.ID)
	return scanEntry(row)
}

// UpdateEntryStatusParams holds fields for an entry moderation decision.
type UpdateEntryStatusParams struct {
	ID        int64
	Status    string
	UpdatedAt time.Time
}

// UpdateEntryStatus transitions an entry between moderation states.
func (q *Queries) UpdateEntryStatus(ctx context.Context, arg UpdateEntryStatusParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE entries SET status = ?, updated_at = ? WHERE id = ?`,
		arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateEntryPhotoParams holds fields for replacing an entry's photo files.
type UpdateEntryPhotoParams struct {
	ID        int64
	PhotoPath string
	ThumbPath string
	UpdatedAt time.Time
}

// UpdateEntryPhoto replaces the stored photo and thumbnail paths.
func (q *Queries) UpdateEntryPhoto(ctx context.Context, arg UpdateEntryPhotoParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE entries SET photo_path = ?, thumb_path = ?, updated_at = ? WHERE id = ?`,
		arg.PhotoPath, arg.ThumbPath, arg.UpdatedAt, arg.ID)
	return err
}

// DeleteEntry removes a gallery entry by ID.
func (q *Queries) DeleteEntry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	return err
}
