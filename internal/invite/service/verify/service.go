// Package verify runs the challenge: lockout check, question validation,
// answer check, then issue, retry or lock.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"skyparty/internal/invite/models"
	"skyparty/internal/invite/ports"
	"skyparty/internal/invite/questions"
	"skyparty/internal/platform/metrics"
	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/audit"
	"skyparty/pkg/platform/middleware/requesttime"
)

const DefaultMaxAttempts = 4

// Issuer mints and persists an invite.
type Issuer interface {
	Issue(ctx context.Context, email, question, club string, at time.Time) (*models.Invite, error)
}

// Stores groups the durable state one verification touches.
type Stores struct {
	Ledger   ports.UsageLedger
	Attempts ports.AttemptTracker
	Lockouts ports.LockoutRegistry
}

type Service struct {
	bank           *questions.Bank
	stores         Stores
	issuer         Issuer
	tx             TxRunner
	mailer         ports.Mailer
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
	maxAttempts    int
	attemptTTL     time.Duration
}

type Option func(*Service)

func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithMailer(m ports.Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithAttemptTTL restarts counters idle for longer than ttl. Zero keeps them forever.
func WithAttemptTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.attemptTTL = ttl
		}
	}
}

func New(bank *questions.Bank, stores Stores, issuer Issuer, opts ...Option) (*Service, error) {
	if bank == nil {
		return nil, errors.New("question bank is required")
	}
	if stores.Ledger == nil || stores.Attempts == nil || stores.Lockouts == nil {
		return nil, errors.New("ledger, attempt and lockout stores are required")
	}
	if issuer == nil {
		return nil, errors.New("invite issuer is required")
	}
	svc := &Service{
		bank:        bank,
		stores:      stores,
		issuer:      issuer,
		tx:          NewMemoryTxRunner(),
		logger:      slog.Default(),
		tracer:      otel.Tracer("skyparty/invite/verify"),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// MaxAttempts is the number of wrong answers that locks an applicant.
func (s *Service) MaxAttempts() int {
	return s.maxAttempts
}

// Questions lists the question texts still open for answers.
func (s *Service) Questions(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "invite.questions")
	defer span.End()
	return s.bank.Available(ctx)
}

// Verify checks one submission. Outcomes the applicant can act on (issued,
// retried, locked) are results; invalid input, unknown questions and storage
// failures are coded errors and leave no partial state behind.
func (s *Service) Verify(ctx context.Context, req models.RequestInviteRequest) (*models.VerifyResult, error) {
	ctx, span := s.tracer.Start(ctx, "invite.verify")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("invite.question", req.Question))

	now := requesttime.Now(ctx)
	var result *models.VerifyResult
	err := s.tx.RunInTx(ctx, req.Email, func(ctx context.Context) error {
		var err error
		result, err = s.verifyInTx(ctx, req, now)
		return err
	})
	if err != nil {
		s.recordError(ctx, span, req, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("invite.outcome", string(result.Outcome)))
	s.afterCommit(ctx, req, result)
	return result, nil
}

func (s *Service) verifyInTx(ctx context.Context, req models.RequestInviteRequest, now time.Time) (*models.VerifyResult, error) {
	locked, err := s.stores.Lockouts.IsLocked(ctx, req.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check lockout")
	}
	if locked {
		return &models.VerifyResult{Outcome: models.OutcomeAlreadyLocked, MaxAttempts: s.maxAttempts}, nil
	}

	question, ok := s.bank.Lookup(req.Question)
	if !ok {
		return nil, errUnknownQuestion()
	}
	retired, err := s.stores.Ledger.IsRetired(ctx, question.Question)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check question")
	}
	if retired {
		return nil, errUnknownQuestion()
	}

	if question.Matches(req.Answer) {
		return s.issue(ctx, req.Email, question, now)
	}
	return s.fail(ctx, req.Email, question, now)
}

func (s *Service) issue(ctx context.Context, email string, question models.ChallengeQuestion, now time.Time) (*models.VerifyResult, error) {
	club := question.ClubOrDefault()
	invite, err := s.issuer.Issue(ctx, email, question.Question, club, now)
	if err != nil {
		return nil, err
	}

	// Retirement is the claim. A concurrent winner leaves newly false, and the
	// rollback discards the invite written above.
	newly, err := s.stores.Ledger.Retire(ctx, question.Question, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retire question")
	}
	if !newly {
		return nil, errUnknownQuestion()
	}
	if err := s.stores.Attempts.Reset(ctx, email, question.Question); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset attempts")
	}
	return &models.VerifyResult{
		Outcome:     models.OutcomeIssued,
		Club:        club,
		MaxAttempts: s.maxAttempts,
		Invite:      invite,
	}, nil
}

func (s *Service) fail(ctx context.Context, email string, question models.ChallengeQuestion, now time.Time) (*models.VerifyResult, error) {
	record, err := s.stores.Attempts.RecordFailure(ctx, email, question.Question, now, s.attemptTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attempt")
	}
	if record.Count < s.maxAttempts {
		return &models.VerifyResult{
			Outcome:     models.OutcomeRetried,
			Attempts:    record.Count,
			MaxAttempts: s.maxAttempts,
		}, nil
	}

	if _, err := s.stores.Lockouts.Lock(ctx, email, models.LockReason(s.maxAttempts), now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock applicant")
	}
	if _, err := s.stores.Ledger.Retire(ctx, question.Question, now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to retire question")
	}
	if err := s.stores.Attempts.Reset(ctx, email, question.Question); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset attempts")
	}
	return &models.VerifyResult{
		Outcome:     models.OutcomeLockoutTriggered,
		Attempts:    s.maxAttempts,
		MaxAttempts: s.maxAttempts,
	}, nil
}

func errUnknownQuestion() error {
	return dErrors.New(dErrors.CodeNotFound, models.MessageInvalidQuestion)
}

func (s *Service) afterCommit(ctx context.Context, req models.RequestInviteRequest, result *models.VerifyResult) {
	switch result.Outcome {
	case models.OutcomeIssued:
		s.metrics.IncrementInvitesIssued(result.Club)
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  req.Email,
			Action:   string(audit.EventInviteIssued),
			Question: req.Question,
			Decision: string(result.Outcome),
		})
		s.deliver(ctx, result.Invite)

	case models.OutcomeRetried:
		s.metrics.IncrementChallengeFailures()
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  req.Email,
			Action:   string(audit.EventChallengeFailed),
			Question: req.Question,
			Decision: string(result.Outcome),
			Reason:   models.WrongAnswerMessage(result.Attempts, result.MaxAttempts),
		})

	case models.OutcomeLockoutTriggered:
		s.metrics.IncrementChallengeFailures()
		s.metrics.IncrementApplicantsLocked()
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  req.Email,
			Action:   string(audit.EventApplicantLocked),
			Question: req.Question,
			Decision: string(result.Outcome),
			Reason:   models.LockReason(result.MaxAttempts),
		})

	case models.OutcomeAlreadyLocked:
		s.metrics.IncrementLockedDenials()
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  req.Email,
			Action:   string(audit.EventLockedApplicantDenied),
			Decision: string(result.Outcome),
		})
	}
}

// deliver hands the code to the mailer. The invite is already committed, so a
// delivery failure is observed and audited but never undoes issuance.
func (s *Service) deliver(ctx context.Context, invite *models.Invite) {
	if s.mailer == nil || invite == nil {
		return
	}
	if err := s.mailer.SendInviteEmail(ctx, invite.Email, invite.Code, invite.Club); err != nil {
		s.metrics.IncrementMailFailures()
		s.logger.ErrorContext(ctx, "invite delivery failed",
			"invite_id", invite.ID,
			"code", invite.MaskedCode(),
			"error", err,
		)
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  invite.Email,
			Action:   string(audit.EventInviteDeliveryFailed),
			Question: invite.Question,
			Reason:   err.Error(),
		})
	}
}

func (s *Service) recordError(ctx context.Context, span trace.Span, req models.RequestInviteRequest, err error) {
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		s.metrics.IncrementUnknownQuestions()
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Subject:  req.Email,
			Action:   string(audit.EventUnknownQuestion),
			Question: req.Question,
			Reason:   models.MessageInvalidQuestion,
		})
	default:
		s.metrics.IncrementStorageFailures()
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification aborted")
		s.logger.ErrorContext(ctx, "challenge verification failed", "error", err)
	}
}
