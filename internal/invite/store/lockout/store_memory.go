// Package lockout stores permanently locked applicants.
package lockout

import (
	"context"
	"sort"
	"sync"
	"time"

	"skyparty/internal/invite/models"
	"skyparty/pkg/platform/sentinel"
)

type InMemoryLockoutStore struct {
	mu     sync.RWMutex
	locked map[string]*models.LockedApplicant
}

func New() *InMemoryLockoutStore {
	return &InMemoryLockoutStore{locked: make(map[string]*models.LockedApplicant)}
}

func (s *InMemoryLockoutStore) Lock(_ context.Context, email, reason string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locked[email]; ok {
		return false, nil
	}
	s.locked[email] = &models.LockedApplicant{Email: email, Reason: reason, LockedAt: at}
	return true, nil
}

func (s *InMemoryLockoutStore) IsLocked(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locked[email]
	return ok, nil
}

func (s *InMemoryLockoutStore) Get(_ context.Context, email string) (*models.LockedApplicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.locked[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *InMemoryLockoutStore) List(_ context.Context, limit int) ([]*models.LockedApplicant, error) {
	s.mu.RLock()
	out := make([]*models.LockedApplicant, 0, len(s.locked))
	for _, rec := range s.locked {
		copied := *rec
		out = append(out, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LockedAt.Equal(out[j].LockedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].LockedAt.After(out[j].LockedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
