package store

import (
	"context"
	"database/sql"
	"time"
)

const profileColumns = `id, email, password_hash, name, role, permissions, is_active, last_login_at, created_at, updated_at`

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Role,
		&p.Permissions, &p.IsActive, &p.LastLoginAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProfile fetches a profile by ID.
func (q *Queries) GetProfile(ctx context.Context, id int64) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetProfileByEmail fetches a profile by email address.
func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

// ListProfiles returns all profiles ordered by creation time.
func (q *Queries) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.Role,
			&p.Permissions, &p.IsActive, &p.LastLoginAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// CountProfiles returns the total number of profiles.
func (q *Queries) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// CreateProfileParams holds fields for creating a profile.
type CreateProfileParams struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Permissions  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateProfile inserts a new profile and returns the created row.
func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO profiles (email, password_hash, name, role, permissions, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+profileColumns,
		arg.Email, arg.PasswordHash, arg.Name, arg.Role, arg.Permissions,
		arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanProfile(row)
}

// UpdateProfileParams holds fields for updating a profile.
type UpdateProfileParams struct {
	ID          int64
	Email       string
	Name        string
	Role        string
	Permissions string
	IsActive    bool
	UpdatedAt   time.Time
}

// UpdateProfile updates mutable profile fields and returns the updated row.
func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE profiles
		 SET email = ?, name = ?, role = ?, permissions = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+profileColumns,
		arg.Email, arg.Name, arg.Role, arg.Permissions, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanProfile(row)
}

// UpdateProfilePasswordParams holds fields for a password change.
type UpdateProfilePasswordParams struct {
	ID           int64
	PasswordHash string
	UpdatedAt    time.Time
}

// UpdateProfilePassword replaces a profile's password hash.
func (q *Queries) UpdateProfilePassword(ctx context.Context, arg UpdateProfilePasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateProfileLastLoginParams holds fields for a last-login timestamp update.
type UpdateProfileLastLoginParams struct {
	ID          int64
	LastLoginAt time.Time
}

// UpdateProfileLastLogin records the time of a successful login.
func (q *Queries) UpdateProfileLastLogin(ctx context.Context, arg UpdateProfileLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE profiles SET last_login_at = ? WHERE id = ?`,
		arg.LastLoginAt, arg.ID)
	return err
}

// DeleteProfile removes a profile by ID.
func (q *Queries) DeleteProfile(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}
