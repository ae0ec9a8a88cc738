// Package invites stores issued invite codes.
package invites

import (
	"context"
	"sync"

	"skyparty/internal/invite/models"
	"skyparty/pkg/platform/sentinel"
)

type InMemoryInviteStore struct {
	mu      sync.RWMutex
	byCode  map[string]*models.Invite
	byEmail map[string][]string
}

func New() *InMemoryInviteStore {
	return &InMemoryInviteStore{
		byCode:  make(map[string]*models.Invite),
		byEmail: make(map[string][]string),
	}
}

func (s *InMemoryInviteStore) Create(_ context.Context, invite *models.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCode[invite.Code]; taken {
		return sentinel.ErrConflict
	}
	copied := *invite
	s.byCode[invite.Code] = &copied
	s.byEmail[invite.Email] = append(s.byEmail[invite.Email], invite.Code)
	return nil
}

func (s *InMemoryInviteStore) FindByCode(_ context.Context, code string) (*models.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

// ListByEmail returns invites in issue order.
func (s *InMemoryInviteStore) ListByEmail(_ context.Context, email string) ([]*models.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := s.byEmail[email]
	out := make([]*models.Invite, 0, len(codes))
	for _, code := range codes {
		copied := *s.byCode[code]
		out = append(out, &copied)
	}
	return out, nil
}
