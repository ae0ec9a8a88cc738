package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"skyparty/internal/invite/ports"
	"skyparty/internal/platform/metrics"
	"skyparty/pkg/platform/audit"
	"skyparty/pkg/requestcontext"
)

var (
	ErrQueueFull = errors.New("mail queue full")
	ErrClosed    = errors.New("mail dispatcher closed")
)

const (
	DefaultQueueSize   = 256
	DefaultSendTimeout = 15 * time.Second
)

// Dispatcher queues invite mails and delivers them from Run. Enqueueing never
// blocks; a full queue drops the message.
type Dispatcher struct {
	sender         Sender
	queue          chan Message
	sendTimeout    time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher ports.AuditPublisher

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

type Option func(*Dispatcher)

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Message, n)
		}
	}
}

func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(d *Dispatcher) {
		d.auditPublisher = p
	}
}

func NewDispatcher(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		queue:       make(chan Message, DefaultQueueSize),
		sendTimeout: DefaultSendTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendInviteEmail enqueues the mail. It satisfies ports.Mailer.
func (d *Dispatcher) SendInviteEmail(ctx context.Context, to, code, club string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	msg := Message{To: to, Code: code, Club: club, RequestID: requestcontext.RequestID(ctx)}
	select {
	case d.queue <- msg:
		return nil
	default:
		d.metrics.IncrementMailDropped()
		return ErrQueueFull
	}
}

// Run delivers queued mail until Close drains the queue or ctx ends.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-d.queue:
			if !ok {
				return nil
			}
			d.deliver(ctx, msg)
		}
	}
}

// Close stops accepting mail. Run returns once the queue is drained.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	ctx = requestcontext.WithRequestID(ctx, msg.RequestID)
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		d.metrics.IncrementMailFailures()
		d.logger.ErrorContext(ctx, "invite delivery failed",
			"request_id", msg.RequestID,
			"error", err,
		)
		ports.LogAudit(ctx, d.logger, d.auditPublisher, audit.Event{
			Subject: msg.To,
			Action:  string(audit.EventInviteDeliveryFailed),
			Reason:  err.Error(),
		})
		return
	}
	d.metrics.IncrementMailDelivered()
	ports.LogAudit(ctx, d.logger, d.auditPublisher, audit.Event{
		Subject: msg.To,
		Action:  string(audit.EventInviteDelivered),
	})
}
