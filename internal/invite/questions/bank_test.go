package questions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyparty/internal/invite/models"
	"skyparty/internal/invite/store/usage"
	dErrors "skyparty/pkg/domain-errors"
)

type failingLedger struct {
	*usage.InMemoryUsageLedger
}

func (failingLedger) ListRetired(context.Context) ([]*models.UsedQuestion, error) {
	return nil, errors.New("connection reset")
}

func TestNewBankValidation(t *testing.T) {
	ledger := usage.New()

	tests := []struct {
		name      string
		catalogue []models.ChallengeQuestion
		wantErr   string
	}{
		{name: "empty", catalogue: nil, wantErr: "question bank is empty"},
		{
			name:      "missing text",
			catalogue: []models.ChallengeQuestion{{Question: "  ", Answer: "x"}},
			wantErr:   "question 1 has no text",
		},
		{
			name:      "missing answer",
			catalogue: []models.ChallengeQuestion{{Question: "Q", Answer: " "}},
			wantErr:   `question "Q" has no answer`,
		},
		{
			name: "duplicate after trim",
			catalogue: []models.ChallengeQuestion{
				{Question: "Q", Answer: "a"},
				{Question: " Q ", Answer: "b"},
			},
			wantErr: `duplicate question "Q"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBank(tt.catalogue, ledger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil ledger", func(t *testing.T) {
		_, err := NewBank(DefaultCatalogue(), nil)
		require.Error(t, err)
	})
}

func TestDefaultCatalogueIsValid(t *testing.T) {
	bank, err := NewBank(DefaultCatalogue(), usage.New())
	require.NoError(t, err)
	assert.Equal(t, 10, bank.Len())

	q, ok := bank.Lookup("Who hosted the inaugural Sky Party™?")
	require.True(t, ok)
	assert.Equal(t, "Victor Ade Club", q.ClubOrDefault())

	q, ok = bank.Lookup("What is the Sky Party™ dress code?")
	require.True(t, ok)
	assert.Equal(t, models.DefaultClub, q.ClubOrDefault())

	_, ok = bank.Lookup("What is the capital of Mars?")
	assert.False(t, ok)
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()
	catalogue := []models.ChallengeQuestion{
		{Question: "Q1", Answer: "a"},
		{Question: "Q2", Answer: "b"},
		{Question: "Q3", Answer: "c"},
	}

	t.Run("excludes retired questions and keeps catalogue order", func(t *testing.T) {
		ledger := usage.New()
		bank, err := NewBank(catalogue, ledger)
		require.NoError(t, err)

		_, err = ledger.Retire(ctx, "Q2", time.Now())
		require.NoError(t, err)

		got, err := bank.Available(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Q1", "Q3"}, got)
	})

	t.Run("empty when everything is retired", func(t *testing.T) {
		ledger := usage.New()
		bank, err := NewBank(catalogue, ledger)
		require.NoError(t, err)
		for _, q := range catalogue {
			_, err := ledger.Retire(ctx, q.Question, time.Now())
			require.NoError(t, err)
		}

		got, err := bank.Available(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("ledger failure is an internal error", func(t *testing.T) {
		bank, err := NewBank(catalogue, failingLedger{usage.New()})
		require.NoError(t, err)

		_, err = bank.Available(ctx)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.Equal(t, "failed to load questions", dErrors.MessageOf(err))
	})
}
