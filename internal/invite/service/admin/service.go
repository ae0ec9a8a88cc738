// Package admin serves read-only views over lockouts, invites and retired questions.
package admin

import (
	"context"
	"errors"

	"skyparty/internal/invite/models"
	"skyparty/internal/invite/ports"
	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/email"
	"skyparty/pkg/platform/sentinel"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

type Service struct {
	lockouts ports.LockoutRegistry
	invites  ports.InviteStore
	ledger   ports.UsageLedger
}

func New(lockouts ports.LockoutRegistry, invites ports.InviteStore, ledger ports.UsageLedger) (*Service, error) {
	if lockouts == nil || invites == nil || ledger == nil {
		return nil, errors.New("lockout, invite and ledger stores are required")
	}
	return &Service{lockouts: lockouts, invites: invites, ledger: ledger}, nil
}

// ListLockouts returns the newest lockouts first. limit is clamped to [1, MaxListLimit].
func (s *Service) ListLockouts(ctx context.Context, limit int) ([]*models.LockedApplicant, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	list, err := s.lockouts.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list lockouts")
	}
	if list == nil {
		list = []*models.LockedApplicant{}
	}
	return list, nil
}

func (s *Service) GetLockout(ctx context.Context, address string) (*models.LockedApplicant, error) {
	address = email.Normalize(address)
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	rec, err := s.lockouts.Get(ctx, address)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "applicant is not locked")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get lockout")
	}
	return rec, nil
}

func (s *Service) ListInvites(ctx context.Context, address string) ([]*models.Invite, error) {
	address = email.Normalize(address)
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	list, err := s.invites.ListByEmail(ctx, address)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invites")
	}
	return list, nil
}

func (s *Service) ListRetired(ctx context.Context) ([]*models.UsedQuestion, error) {
	list, err := s.ledger.ListRetired(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list retired questions")
	}
	if list == nil {
		list = []*models.UsedQuestion{}
	}
	return list, nil
}
