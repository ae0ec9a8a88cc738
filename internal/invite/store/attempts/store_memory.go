// Package attempts counts wrong answers per applicant and question.
package attempts

import (
	"context"
	"sync"
	"time"

	"skyparty/internal/invite/models"
)

// InMemoryAttemptStore keeps counters in a map guarded by one mutex, which makes
// each RecordFailure a single atomic read-modify-write.
type InMemoryAttemptStore struct {
	mu      sync.Mutex
	records map[models.AttemptKey]*models.AttemptRecord
}

func New() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{records: make(map[models.AttemptKey]*models.AttemptRecord)}
}

func (s *InMemoryAttemptStore) RecordFailure(_ context.Context, email, question string, now time.Time, ttl time.Duration) (*models.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.NewAttemptKey(email, question)
	rec, ok := s.records[key]
	if !ok || rec.IsExpired(ttl, now) {
		rec = &models.AttemptRecord{Email: email, Question: question}
		s.records[key] = rec
	}
	rec.Count++
	rec.LastAttemptAt = now

	copied := *rec
	return &copied, nil
}

func (s *InMemoryAttemptStore) Reset(_ context.Context, email, question string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, models.NewAttemptKey(email, question))
	return nil
}

func (s *InMemoryAttemptStore) Get(_ context.Context, email, question string) (*models.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[models.NewAttemptKey(email, question)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}
