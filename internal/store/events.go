package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, created_at, level, category, message, user_id, ip_address, user_agent, meta`

// CreateEventParams holds fields for recording an audit event.
type CreateEventParams struct {
	CreatedAt time.Time
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress sql.NullString
	UserAgent sql.NullString
	Meta      sql.NullString
}

// CreateEvent inserts an audit event record.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (created_at, level, category, message, user_id, ip_address, user_agent, meta)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.CreatedAt, arg.Level, arg.Category, arg.Message,
		arg.UserID, arg.IPAddress, arg.UserAgent, arg.Meta)
	return err
}

// ListEventsParams holds filters for listing audit events.
type ListEventsParams struct {
	Category string // empty means all categories
	Limit    int64
	Offset   int64
}

// ListEvents returns audit events newest first, optionally filtered by category.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if arg.Category == "" {
		rows, err = q.db.QueryContext(ctx,
			`SELECT `+eventColumns+` FROM events ORDER BY id DESC LIMIT ? OFFSET ?`,
			arg.Limit, arg.Offset)
	} else {
		rows, err = q.db.QueryContext(ctx,
			`SELECT `+eventColumns+` FROM events WHERE category = ? ORDER BY id DESC LIMIT ? OFFSET ?`,
			arg.Category, arg.Limit, arg.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Level, &e.Category, &e.Message,
			&e.UserID, &e.IPAddress, &e.UserAgent, &e.Meta); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CountEvents returns the total number of audit events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

// PurgeEventsBefore deletes audit events older than the cutoff and returns
// the number of rows removed.
func (q *Queries) PurgeEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
