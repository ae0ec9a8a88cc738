// Package publisher fronts an audit store with optional asynchronous buffering.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	audit "skyparty/pkg/platform/audit"
	"skyparty/pkg/platform/audit/worker"
)

// Lister is implemented by stores that can read events back.
type Lister interface {
	ListBySubject(ctx context.Context, subject string) ([]audit.Event, error)
}

// Publisher stamps events (ID, category, timestamp) and hands them to the store,
// synchronously by default or through a bounded buffer drained by a worker.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	bufferSize int
	inbox      chan audit.Event
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	closed     bool
	dropped    atomic.Int64
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with a buffer of size n.
// Events emitted while the buffer is full are dropped and counted.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. In async mode it never blocks the caller.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
	default:
		p.dropped.Add(1)
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"request_id", event.RequestID,
		)
	}
	return nil
}

// List reads events for a subject when the underlying store supports it.
func (p *Publisher) List(ctx context.Context, subject string) ([]audit.Event, error) {
	lister, ok := p.store.(Lister)
	if !ok {
		return nil, nil
	}
	return lister.ListBySubject(ctx, subject)
}

// Dropped returns the number of events discarded because the buffer was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting buffered events and waits for the buffer to drain.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
		<-p.done
	})
}
