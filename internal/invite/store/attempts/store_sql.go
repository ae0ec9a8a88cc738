package attempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/database"
)

// SQLAttemptStore keeps counters in challenge_attempts.
type SQLAttemptStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLAttemptStore {
	return &SQLAttemptStore{db: db}
}

// RecordFailure increments with a single upsert so concurrent failures never
// lose an update. A row whose last attempt is older than the ttl cutoff restarts at 1.
func (s *SQLAttemptStore) RecordFailure(ctx context.Context, email, question string, now time.Time, ttl time.Duration) (*models.AttemptRecord, error) {
	var cutoff int64
	if ttl > 0 {
		cutoff = database.ToMillis(now.Add(-ttl))
	}
	query := s.db.Rebind(`
		INSERT INTO challenge_attempts (email, question, attempt_count, last_attempt_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (email, question) DO UPDATE SET
			attempt_count = CASE
				WHEN challenge_attempts.last_attempt_at < ? THEN 1
				ELSE challenge_attempts.attempt_count + 1
			END,
			last_attempt_at = excluded.last_attempt_at
		RETURNING email, question, attempt_count, last_attempt_at
	`)
	rec, err := scanRecord(s.db.Executor(ctx).QueryRowContext(ctx, query, email, question, database.ToMillis(now), cutoff))
	if err != nil {
		return nil, fmt.Errorf("record failed attempt: %w", err)
	}
	return rec, nil
}

func (s *SQLAttemptStore) Reset(ctx context.Context, email, question string) error {
	_, err := s.db.Executor(ctx).ExecContext(ctx,
		s.db.Rebind(`DELETE FROM challenge_attempts WHERE email = ? AND question = ?`), email, question)
	if err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}

func (s *SQLAttemptStore) Get(ctx context.Context, email, question string) (*models.AttemptRecord, error) {
	query := s.db.Rebind(`
		SELECT email, question, attempt_count, last_attempt_at
		FROM challenge_attempts
		WHERE email = ? AND question = ?
	`)
	rec, err := scanRecord(s.db.Executor(ctx).QueryRowContext(ctx, query, email, question))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempts: %w", err)
	}
	return rec, nil
}

func scanRecord(row *sql.Row) (*models.AttemptRecord, error) {
	var (
		rec    models.AttemptRecord
		millis int64
	)
	if err := row.Scan(&rec.Email, &rec.Question, &rec.Count, &millis); err != nil {
		return nil, err
	}
	rec.LastAttemptAt = database.FromMillis(millis)
	return &rec, nil
}
