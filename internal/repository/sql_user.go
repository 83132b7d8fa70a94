package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/meetmeter/internal/db"
	"github.com/alexanderramin/meetmeter/internal/domain"
)

// SQLUserRepo implements UserRepo on the users table.
type SQLUserRepo struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewSQLUserRepo(conn db.DBTX, dialect db.Dialect) *SQLUserRepo {
	return &SQLUserRepo{db: conn, dialect: dialect}
}

// Upsert inserts the user or updates name and subject id of an existing one.
// created_at is kept from the first insert.
func (r *SQLUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	now := nowUTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	query := db.Rebind(r.dialect, `INSERT INTO users (email, name, google_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			google_id = excluded.google_id,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		u.Email,
		u.Name,
		u.GoogleID,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := db.Rebind(r.dialect, `SELECT email, name, google_id, created_at, updated_at
		FROM users WHERE email = ?`)
	row := r.db.QueryRowContext(ctx, query, email)

	var (
		u                domain.User
		created, updated string
	)
	if err := row.Scan(&u.Email, &u.Name, &u.GoogleID, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	var err error
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parsing user created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parsing user updated_at: %w", err)
	}
	return &u, nil
}
