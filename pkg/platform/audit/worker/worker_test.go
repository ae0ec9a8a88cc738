package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "skyparty/pkg/platform/audit"
	"skyparty/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("sink down")
}

func TestWorker_DrainsUntilInboxClosed(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Subject: "ada@example.com", Action: string(audit.EventChallengeFailed)}
	inbox <- audit.Event{Subject: "ada@example.com", Action: string(audit.EventApplicantLocked)}
	close(inbox)

	w := NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, w.Run(context.Background()))

	events, err := store.ListBySubject(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestWorker_StoreFailureIsCountedNotFatal(t *testing.T) {
	inbox := make(chan audit.Event, 2)
	inbox <- audit.Event{Action: string(audit.EventInviteIssued)}
	inbox <- audit.Event{Action: string(audit.EventInviteIssued)}
	close(inbox)

	w := NewWorker(failingStore{}, inbox, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, int64(2), w.Failures())
}

func TestWorker_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorker(memory.NewInMemoryStore(), make(chan audit.Event), nil)
	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}
