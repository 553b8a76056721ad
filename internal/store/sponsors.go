package store

import (
	"context"
	"database/sql"
	"time"
)

const sponsorColumns = `id, name, url, logo_path, tier, sort_order, is_visible, created_at, updated_at`

func scanSponsor(row *sql.Row) (Sponsor, error) {
	var s Sponsor
	err := row.Scan(&s.ID, &s.Name, &s.URL, &s.LogoPath, &s.Tier,
		&s.SortOrder, &s.IsVisible, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collectSponsors(rows *sql.Rows) ([]Sponsor, error) {
	defer rows.Close()
	var items []Sponsor
	for rows.Next() {
		var s Sponsor
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.LogoPath, &s.Tier,
			&s.SortOrder, &s.IsVisible, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetSponsor fetches a sponsor by ID.
func (q *Queries) GetSponsor(ctx context.Context, id int64) (Sponsor, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+sponsorColumns+` FROM sponsors WHERE id = ?`, id)
	return scanSponsor(row)
}

// ListSponsors returns all sponsors in display order.
func (q *Queries) ListSponsors(ctx context.Context) ([]Sponsor, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sponsorColumns+` FROM sponsors ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectSponsors(rows)
}

// ListVisibleSponsors returns sponsors shown on the public site, in display order.
func (q *Queries) ListVisibleSponsors(ctx context.Context) ([]Sponsor, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sponsorColumns+` FROM sponsors WHERE is_visible = 1 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectSponsors(rows)
}

// CreateSponsorParams holds fields for creating a sponsor.
type CreateSponsorParams struct {
	Name      string
	URL       string
	LogoPath  string
	Tier      string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateSponsor inserts a sponsor and returns the created row.
func (q *Queries) CreateSponsor(ctx context.Context, arg CreateSponsorParams) (Sponsor, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO sponsors (name, url, logo_path, tier, sort_order, is_visible, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+sponsorColumns,
		arg.Name, arg.URL, arg.LogoPath, arg.Tier, arg.SortOrder,
		arg.IsVisible, arg.CreatedAt, arg.UpdatedAt)
	return scanSponsor(row)
}

// UpdateSponsorParams holds fields for updating a sponsor.
type UpdateSponsorParams struct {
	ID        int64
	Name      string
	URL       string
	LogoPath  string
	Tier      string
	SortOrder int64
	IsVisible bool
	UpdatedAt time.Time
}

// UpdateSponsor updates a sponsor and returns the updated row.
func (q *Queries) UpdateSponsor(ctx context.Context, arg UpdateSponsorParams) (Sponsor, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE sponsors
		 SET name = ?, url = ?, logo_path = ?, tier = ?, sort_order = ?, is_visible = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+sponsorColumns,
		arg.Name, arg.URL, arg.LogoPath, arg.Tier, arg.SortOrder,
		arg.IsVisible, arg.UpdatedAt, arg.ID)
	return scanSponsor(row)
}

// DeleteSponsor removes a sponsor by ID.
func (q *Queries) DeleteSponsor(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = ?`, id)
	return err
}
