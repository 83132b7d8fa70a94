package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/meetmeter/internal/db"
	"github.com/alexanderramin/meetmeter/internal/domain"
)

// SQLCredentialRepo implements CredentialRepo on the user_tokens table.
type SQLCredentialRepo struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewSQLCredentialRepo(conn db.DBTX, dialect db.Dialect) *SQLCredentialRepo {
	return &SQLCredentialRepo{db: conn, dialect: dialect}
}

// Upsert replaces the stored tokens for the credential's email. Concurrent
// writers are not coordinated; the last write wins.
func (r *SQLCredentialRepo) Upsert(ctx context.Context, c *domain.UserCredential) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = nowUTC()
	}
	query := db.Rebind(r.dialect, `INSERT INTO user_tokens
		(email, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		c.Email,
		c.AccessToken,
		c.RefreshToken,
		c.TokenType,
		nullableTime(c.Expiry),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user token: %w", err)
	}
	return nil
}

func (r *SQLCredentialRepo) GetByEmail(ctx context.Context, email string) (*domain.UserCredential, error) {
	query := db.Rebind(r.dialect, `SELECT email, access_token, refresh_token, token_type, expiry, updated_at
		FROM user_tokens WHERE email = ?`)
	row := r.db.QueryRowContext(ctx, query, email)

	var (
		c       domain.UserCredential
		expiry  sql.NullString
		updated string
	)
	if err := row.Scan(&c.Email, &c.AccessToken, &c.RefreshToken, &c.TokenType, &expiry, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user token %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user token: %w", err)
	}
	c.Expiry = parseNullableTime(expiry)
	var err error
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parsing user token updated_at: %w", err)
	}
	return &c, nil
}
