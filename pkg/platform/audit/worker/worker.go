package worker

import (
	"context"
	"log/slog"
	"sync/atomic"

	audit "skyparty/pkg/platform/audit"
)

// Worker consumes audit events from a channel and appends them to a store.
// A failing store never stops the worker; failures are logged and counted.
type Worker struct {
	store    audit.Store
	inbox    <-chan audit.Event
	logger   *slog.Logger
	failures atomic.Int64
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until it is closed or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.append(ctx, event)
		}
	}
}

func (w *Worker) append(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.failures.Add(1)
		w.logger.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

// Failures returns the number of events the store rejected.
func (w *Worker) Failures() int64 {
	return w.failures.Load()
}
