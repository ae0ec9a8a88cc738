// Package sqlstore persists audit events in the audit_events table on either
// relational backend.
package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"skyparty/internal/platform/database"
	audit "skyparty/pkg/platform/audit"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Append writes one event. When ctx carries a transaction the event commits with it.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}
	query := s.db.Rebind(`
		INSERT INTO audit_events (id, category, occurred_at, subject, action, question, decision, reason, request_id, client_ip, device)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	_, err := s.db.Executor(ctx).ExecContext(ctx, query,
		event.ID,
		string(category),
		database.ToMillis(event.Timestamp),
		event.Subject,
		event.Action,
		event.Question,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	return s.list(ctx, `WHERE subject = ? ORDER BY occurred_at ASC, id ASC`, subject)
}

// ListRecent returns the newest events first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.list(ctx, `ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
}

func (s *Store) list(ctx context.Context, tail string, args ...any) ([]audit.Event, error) {
	query := s.db.Rebind(`
		SELECT id, category, occurred_at, subject, action, question, decision, reason, request_id, client_ip, device
		FROM audit_events ` + tail)
	rows, err := s.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			millis   int64
		)
		if err := rows.Scan(&e.ID, &category, &millis, &e.Subject, &e.Action, &e.Question,
			&e.Decision, &e.Reason, &e.RequestID, &e.ClientIP, &e.Device); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Timestamp = database.FromMillis(millis)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
