package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"skyparty/internal/invite/handler"
	"skyparty/internal/invite/ports"
	"skyparty/internal/invite/questions"
	"skyparty/internal/invite/service/admin"
	"skyparty/internal/invite/service/issuer"
	"skyparty/internal/invite/service/verify"
	"skyparty/internal/invite/store/attempts"
	"skyparty/internal/invite/store/invites"
	"skyparty/internal/invite/store/lockout"
	"skyparty/internal/invite/store/usage"
	"skyparty/internal/mail"
	"skyparty/internal/platform/config"
	"skyparty/internal/platform/database"
	"skyparty/internal/platform/metrics"
	"skyparty/internal/platform/redis"
	httptransport "skyparty/internal/transport/http"
	"skyparty/pkg/platform/audit"
	auditpublisher "skyparty/pkg/platform/audit/publisher"
	"skyparty/pkg/platform/audit/publishers/kafka"
	auditmemory "skyparty/pkg/platform/audit/store/memory"
	"skyparty/pkg/platform/audit/store/sqlstore"
)

type app struct {
	router     http.Handler
	dispatcher *mail.Dispatcher
	closers    []func()
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type backend struct {
	ledger   ports.UsageLedger
	attempts ports.AttemptTracker
	lockouts ports.LockoutRegistry
	invites  ports.InviteStore
	tx       verify.TxRunner
	db       *database.DB
	health   map[string]httptransport.HealthCheck
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics, reg prometheus.Gatherer) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.close()
		return nil, err
	}

	be, err := openBackend(ctx, cfg, log, a)
	if err != nil {
		return fail(err)
	}

	publisher, err := openAudit(cfg, be.db, log, a)
	if err != nil {
		return fail(err)
	}

	catalogue, err := questions.Resolve(cfg.Challenge.QuestionBankPath)
	if err != nil {
		return fail(err)
	}
	bank, err := questions.NewBank(catalogue, be.ledger)
	if err != nil {
		return fail(fmt.Errorf("question bank: %w", err))
	}

	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.Mail.Enabled {
		sender = mail.NewSMTPSender(cfg.Mail)
	}
	a.dispatcher = mail.NewDispatcher(sender,
		mail.WithQueueSize(cfg.Mail.QueueSize),
		mail.WithSendTimeout(cfg.Mail.SendTimeout),
		mail.WithLogger(log),
		mail.WithMetrics(m),
		mail.WithAuditPublisher(publisher),
	)

	inviteIssuer, err := issuer.New(be.invites,
		issuer.WithCodeBytes(cfg.Challenge.CodeBytes),
		issuer.WithMaxRetries(cfg.Challenge.CodeMaxRetries),
		issuer.WithMetrics(m),
		issuer.WithLogger(log),
	)
	if err != nil {
		return fail(err)
	}

	verifier, err := verify.New(bank,
		verify.Stores{Ledger: be.ledger, Attempts: be.attempts, Lockouts: be.lockouts},
		inviteIssuer,
		verify.WithTxRunner(be.tx),
		verify.WithMailer(a.dispatcher),
		verify.WithAuditPublisher(publisher),
		verify.WithMetrics(m),
		verify.WithLogger(log),
		verify.WithMaxAttempts(cfg.Challenge.MaxAttempts),
		verify.WithAttemptTTL(cfg.Challenge.AttemptTTL),
	)
	if err != nil {
		return fail(err)
	}

	adminSvc, err := admin.New(be.lockouts, be.invites, be.ledger)
	if err != nil {
		return fail(err)
	}

	a.router = httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   be.health,
		Routes: []httptransport.Registrar{
			handler.New(verifier, log, m, cfg.Challenge.SupportEmail),
			handler.NewAdmin(adminSvc, log, m, cfg.Server.AdminToken),
		},
	})
	return a, nil
}

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger, a *app) (*backend, error) {
	be := &backend{health: map[string]httptransport.HealthCheck{}}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory store; state is lost on restart")
		be.ledger = usage.New()
		be.attempts = attempts.New()
		be.lockouts = lockout.New()
		be.invites = invites.New()
		be.tx = verify.NewMemoryTxRunner()

	case config.BackendSQLite, config.BackendPostgres:
		var (
			db  *database.DB
			err error
		)
		if cfg.Store.Backend == config.BackendSQLite {
			db, err = database.OpenSQLite(cfg.Store.SQLitePath)
		} else {
			db, err = database.OpenPostgres(cfg.Store.DatabaseURL)
		}
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		be.db = db
		be.ledger = usage.NewSQL(db)
		be.attempts = attempts.NewSQL(db)
		be.lockouts = lockout.NewSQL(db)
		be.invites = invites.NewSQL(db)
		be.tx = database.NewTxRunner(db, cfg.Store.TxTimeout)
		be.health["store"] = db.Health

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.AttemptsBackend == config.AttemptsBackendRedis {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("REDIS_URL is required when ATTEMPTS_BACKEND=redis")
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		be.attempts = attempts.NewRedis(client.Client)
		be.health["redis"] = client.Health
		log.Warn("attempt counters live in redis and are not rolled back with store transactions")
	}
	return be, nil
}

// openAudit returns nil for the log sink: ports.LogAudit already writes every
// event to the structured log.
func openAudit(cfg config.Config, db *database.DB, log *slog.Logger, a *app) (ports.AuditPublisher, error) {
	var store audit.Store
	switch cfg.Audit.Sink {
	case config.AuditSinkLog:
		return nil, nil
	case config.AuditSinkMemory:
		store = auditmemory.NewInMemoryStore()
	case config.AuditSinkSQL:
		if db == nil {
			return nil, fmt.Errorf("audit sink %q needs a relational store", cfg.Audit.Sink)
		}
		store = sqlstore.New(db)
	case config.AuditSinkKafka:
		sink, err := kafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sink.Close)
		store = sink
	default:
		return nil, fmt.Errorf("unknown audit sink %q", cfg.Audit.Sink)
	}

	publisher := auditpublisher.NewPublisher(store,
		auditpublisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		auditpublisher.WithLogger(log),
	)
	a.closers = append(a.closers, publisher.Close)
	return publisher, nil
}
