// Package questions holds the immutable question bank and answers which
// questions are still available.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skyparty/internal/invite/models"
	"skyparty/internal/invite/ports"
	dErrors "skyparty/pkg/domain-errors"
)

// Bank is the fixed catalogue plus the ledger of retired questions.
type Bank struct {
	questions []models.ChallengeQuestion
	byText    map[string]models.ChallengeQuestion
	ledger    ports.UsageLedger
}

// NewBank validates the catalogue: non-empty, unique question text, non-empty answers.
func NewBank(catalogue []models.ChallengeQuestion, ledger ports.UsageLedger) (*Bank, error) {
	if ledger == nil {
		return nil, errors.New("usage ledger is required")
	}
	if len(catalogue) == 0 {
		return nil, errors.New("question bank is empty")
	}
	b := &Bank{
		questions: make([]models.ChallengeQuestion, 0, len(catalogue)),
		byText:    make(map[string]models.ChallengeQuestion, len(catalogue)),
		ledger:    ledger,
	}
	for i, q := range catalogue {
		q.Question = strings.TrimSpace(q.Question)
		q.Club = strings.TrimSpace(q.Club)
		if q.Question == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if strings.TrimSpace(q.Answer) == "" {
			return nil, fmt.Errorf("question %q has no answer", q.Question)
		}
		if _, dup := b.byText[q.Question]; dup {
			return nil, fmt.Errorf("duplicate question %q", q.Question)
		}
		b.byText[q.Question] = q
		b.questions = append(b.questions, q)
	}
	return b, nil
}

// Lookup finds a question by exact text.
func (b *Bank) Lookup(question string) (models.ChallengeQuestion, bool) {
	q, ok := b.byText[question]
	return q, ok
}

// Len is the catalogue size.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Available returns the catalogue minus retired questions, in catalogue order.
func (b *Bank) Available(ctx context.Context) ([]string, error) {
	retired, err := b.ledger.ListRetired(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load questions")
	}
	used := make(map[string]struct{}, len(retired))
	for _, r := range retired {
		used[r.Question] = struct{}{}
	}

	out := make([]string, 0, len(b.questions))
	for _, q := range b.questions {
		if _, gone := used[q.Question]; gone {
			continue
		}
		out = append(out, q.Question)
	}
	return out, nil
}
