package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/meetmeter/internal/db"
	"github.com/alexanderramin/meetmeter/internal/domain"
)

// SQLStatusRepo implements StatusRepo on the status_checks table.
type SQLStatusRepo struct {
	db      db.DBTX
	dialect db.Dialect
}

func NewSQLStatusRepo(conn db.DBTX, dialect db.Dialect) *SQLStatusRepo {
	return &SQLStatusRepo{db: conn, dialect: dialect}
}

func (r *SQLStatusRepo) Create(ctx context.Context, s *domain.StatusCheck) error {
	query := db.Rebind(r.dialect, `INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.ClientName, formatTime(s.Timestamp)); err != nil {
		return fmt.Errorf("inserting status check: %w", err)
	}
	return nil
}

func (r *SQLStatusRepo) List(ctx context.Context, limit int) ([]*domain.StatusCheck, error) {
	if limit <= 0 || limit > StatusListLimit {
		limit = StatusListLimit
	}
	query := db.Rebind(r.dialect, `SELECT id, client_name, timestamp FROM status_checks
		ORDER BY timestamp DESC, id DESC LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing status checks: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.StatusCheck, 0)
	for rows.Next() {
		var (
			s  domain.StatusCheck
			ts string
		)
		if err := rows.Scan(&s.ID, &s.ClientName, &ts); err != nil {
			return nil, fmt.Errorf("scanning status check: %w", err)
		}
		if s.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parsing status check timestamp: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
