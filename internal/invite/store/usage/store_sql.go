package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/database"
)

// SQLUsageLedger persists retired questions in used_questions.
// Joins the caller's transaction when one is carried by ctx.
type SQLUsageLedger struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLUsageLedger {
	return &SQLUsageLedger{db: db}
}

// Retire claims the question. Concurrent claims race on the primary key; exactly
// one caller sees true.
func (s *SQLUsageLedger) Retire(ctx context.Context, question string, at time.Time) (bool, error) {
	query := s.db.Rebind(`
		INSERT INTO used_questions (question, retired_at)
		VALUES (?, ?)
		ON CONFLICT (question) DO NOTHING
	`)
	res, err := s.db.Executor(ctx).ExecContext(ctx, query, question, database.ToMillis(at))
	if err != nil {
		return false, fmt.Errorf("retire question: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("retire question rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *SQLUsageLedger) IsRetired(ctx context.Context, question string) (bool, error) {
	var found int
	err := s.db.Executor(ctx).QueryRowContext(ctx,
		s.db.Rebind(`SELECT 1 FROM used_questions WHERE question = ?`), question).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check retired question: %w", err)
	}
	return true, nil
}

func (s *SQLUsageLedger) ListRetired(ctx context.Context) ([]*models.UsedQuestion, error) {
	rows, err := s.db.Executor(ctx).QueryContext(ctx,
		`SELECT question, retired_at FROM used_questions ORDER BY retired_at ASC, question ASC`)
	if err != nil {
		return nil, fmt.Errorf("list retired questions: %w", err)
	}
	defer rows.Close()

	var out []*models.UsedQuestion
	for rows.Next() {
		var (
			q      models.UsedQuestion
			millis int64
		)
		if err := rows.Scan(&q.Question, &millis); err != nil {
			return nil, fmt.Errorf("scan retired question: %w", err)
		}
		q.RetiredAt = database.FromMillis(millis)
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retired questions: %w", err)
	}
	return out, nil
}
