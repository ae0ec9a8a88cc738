package lockout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/database"
	"skyparty/pkg/platform/sentinel"
)

const defaultListLimit = 100

type SQLLockoutStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLLockoutStore {
	return &SQLLockoutStore{db: db}
}

// Lock inserts once. An existing lock keeps its original reason and time.
func (s *SQLLockoutStore) Lock(ctx context.Context, email, reason string, at time.Time) (bool, error) {
	query := s.db.Rebind(`
		INSERT INTO locked_applicants (email, reason, locked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`)
	res, err := s.db.Executor(ctx).ExecContext(ctx, query, email, reason, database.ToMillis(at))
	if err != nil {
		return false, fmt.Errorf("lock applicant: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("lock applicant rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *SQLLockoutStore) IsLocked(ctx context.Context, email string) (bool, error) {
	_, err := s.Get(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLLockoutStore) Get(ctx context.Context, email string) (*models.LockedApplicant, error) {
	var (
		rec    models.LockedApplicant
		millis int64
	)
	err := s.db.Executor(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT email, reason, locked_at FROM locked_applicants WHERE email = ?`), email,
	).Scan(&rec.Email, &rec.Reason, &millis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get locked applicant: %w", err)
	}
	rec.LockedAt = database.FromMillis(millis)
	return &rec, nil
}

func (s *SQLLockoutStore) List(ctx context.Context, limit int) ([]*models.LockedApplicant, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.Executor(ctx).QueryContext(ctx, s.db.Rebind(`
		SELECT email, reason, locked_at
		FROM locked_applicants
		ORDER BY locked_at DESC, email ASC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list locked applicants: %w", err)
	}
	defer rows.Close()

	var out []*models.LockedApplicant
	for rows.Next() {
		var (
			rec    models.LockedApplicant
			millis int64
		)
		if err := rows.Scan(&rec.Email, &rec.Reason, &millis); err != nil {
			return nil, fmt.Errorf("scan locked applicant: %w", err)
		}
		rec.LockedAt = database.FromMillis(millis)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked applicants: %w", err)
	}
	return out, nil
}
