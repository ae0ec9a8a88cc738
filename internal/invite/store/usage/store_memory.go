// Package usage stores the ledger of retired questions.
package usage

import (
	"context"
	"sync"
	"time"

	"skyparty/internal/invite/models"
)

// InMemoryUsageLedger is an append-only in-process ledger.
type InMemoryUsageLedger struct {
	mu      sync.RWMutex
	retired map[string]*models.UsedQuestion
	order   []string
}

func New() *InMemoryUsageLedger {
	return &InMemoryUsageLedger{retired: make(map[string]*models.UsedQuestion)}
}

func (s *InMemoryUsageLedger) Retire(_ context.Context, question string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retired[question]; ok {
		return false, nil
	}
	s.retired[question] = &models.UsedQuestion{Question: question, RetiredAt: at}
	s.order = append(s.order, question)
	return true, nil
}

func (s *InMemoryUsageLedger) IsRetired(_ context.Context, question string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.retired[question]
	return ok, nil
}

func (s *InMemoryUsageLedger) ListRetired(_ context.Context) ([]*models.UsedQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.UsedQuestion, 0, len(s.order))
	for _, q := range s.order {
		copied := *s.retired[q]
		out = append(out, &copied)
	}
	return out, nil
}
