// Package ports defines the interfaces shared by the invite services.
// Interfaces are placed here when consumed by more than one service.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"skyparty/internal/invite/models"
	"skyparty/pkg/email"
	"skyparty/pkg/platform/audit"
	"skyparty/pkg/requestcontext"
)

// UsageLedger records permanently retired questions.
type UsageLedger interface {
	// Retire appends the question. It reports false when the question was already retired.
	Retire(ctx context.Context, question string, at time.Time) (bool, error)

	IsRetired(ctx context.Context, question string) (bool, error)

	// ListRetired returns every retired question, oldest first.
	ListRetired(ctx context.Context) ([]*models.UsedQuestion, error)
}

// AttemptTracker counts wrong answers per (email, question).
type AttemptTracker interface {
	// RecordFailure atomically increments and returns the counter, starting at 1.
	// A record older than ttl restarts at 1; ttl <= 0 never expires.
	RecordFailure(ctx context.Context, email, question string, now time.Time, ttl time.Duration) (*models.AttemptRecord, error)

	Reset(ctx context.Context, email, question string) error

	// Get returns nil without error when no record exists.
	Get(ctx context.Context, email, question string) (*models.AttemptRecord, error)
}

// LockoutRegistry records permanently denied applicants.
type LockoutRegistry interface {
	// Lock reports false when the email was already locked; the original reason is kept.
	Lock(ctx context.Context, email, reason string, at time.Time) (bool, error)

	IsLocked(ctx context.Context, email string) (bool, error)

	// Get returns sentinel.ErrNotFound when the email is not locked.
	Get(ctx context.Context, email string) (*models.LockedApplicant, error)

	// List returns the most recent lockouts first.
	List(ctx context.Context, limit int) ([]*models.LockedApplicant, error)
}

// InviteStore persists issued invites.
type InviteStore interface {
	// Create returns sentinel.ErrConflict when the code is already taken.
	Create(ctx context.Context, invite *models.Invite) error

	// FindByCode returns sentinel.ErrNotFound for unknown codes.
	FindByCode(ctx context.Context, code string) (*models.Invite, error)

	ListByEmail(ctx context.Context, email string) ([]*models.Invite, error)
}

// AuditPublisher emits audit events for security-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Mailer delivers invite codes. Implementations may queue.
type Mailer interface {
	SendInviteEmail(ctx context.Context, to, code, club string) error
}

// LogAudit writes an audit log line and emits the event, enriching both with
// request metadata from ctx. Emission failures are logged, never returned.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Device = requestcontext.Device(ctx)

	if logger != nil {
		args := []any{
			"event", event.Action,
			"log_type", "audit",
			"email", email.Mask(event.Subject),
		}
		if event.Question != "" {
			args = append(args, "question", event.Question)
		}
		if event.Reason != "" {
			args = append(args, "reason", event.Reason)
		}
		if event.RequestID != "" {
			args = append(args, "request_id", event.RequestID)
		}
		logger.InfoContext(ctx, event.Action, args...)
	}

	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}
