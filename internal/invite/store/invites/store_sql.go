package invites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/database"
	"skyparty/pkg/platform/sentinel"
)

type SQLInviteStore struct {
	db *database.DB
}

func NewSQL(db *database.DB) *SQLInviteStore {
	return &SQLInviteStore{db: db}
}

// Create relies on the unique code column. A taken code inserts nothing and
// returns sentinel.ErrConflict without aborting the surrounding transaction.
func (s *SQLInviteStore) Create(ctx context.Context, invite *models.Invite) error {
	query := s.db.Rebind(`
		INSERT INTO invites (id, email, code, club, question, status, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO NOTHING
	`)
	res, err := s.db.Executor(ctx).ExecContext(ctx, query,
		invite.ID,
		invite.Email,
		invite.Code,
		invite.Club,
		invite.Question,
		string(invite.Status),
		database.ToMillis(invite.IssuedAt),
	)
	if err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create invite rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

const selectInvite = `SELECT id, email, code, club, question, status, issued_at FROM invites`

func (s *SQLInviteStore) FindByCode(ctx context.Context, code string) (*models.Invite, error) {
	row := s.db.Executor(ctx).QueryRowContext(ctx, s.db.Rebind(selectInvite+` WHERE code = ?`), code)
	inv, err := scanInvite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find invite: %w", err)
	}
	return inv, nil
}

func (s *SQLInviteStore) ListByEmail(ctx context.Context, email string) ([]*models.Invite, error) {
	rows, err := s.db.Executor(ctx).QueryContext(ctx,
		s.db.Rebind(selectInvite+` WHERE email = ? ORDER BY issued_at ASC, id ASC`), email)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	out := []*models.Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invites: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvite(row scanner) (*models.Invite, error) {
	var (
		inv    models.Invite
		status string
		millis int64
	)
	if err := row.Scan(&inv.ID, &inv.Email, &inv.Code, &inv.Club, &inv.Question, &status, &millis); err != nil {
		return nil, err
	}
	inv.Status = models.InviteStatus(status)
	inv.IssuedAt = database.FromMillis(millis)
	return &inv, nil
}
