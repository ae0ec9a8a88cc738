// Package issuer mints unique invite codes and persists them.
package issuer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/metrics"
	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/sentinel"
)

const (
	DefaultCodeBytes  = 8
	DefaultMaxRetries = 3
)

// Store is the subset of ports.InviteStore the issuer writes through.
type Store interface {
	Create(ctx context.Context, invite *models.Invite) error
}

type Service struct {
	store      Store
	codeBytes  int
	maxRetries int
	random     io.Reader
	newID      func() string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Service)

// WithCodeBytes sets the entropy of a code; values below 8 are ignored.
func WithCodeBytes(n int) Option {
	return func(s *Service) {
		if n >= DefaultCodeBytes {
			s.codeBytes = n
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRandom replaces crypto/rand as the entropy source.
func WithRandom(r io.Reader) Option {
	return func(s *Service) {
		s.random = r
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
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

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("invite store is required")
	}
	svc := &Service{
		store:      store,
		codeBytes:  DefaultCodeBytes,
		maxRetries: DefaultMaxRetries,
		random:     rand.Reader,
		newID:      uuid.NewString,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// GenerateCode returns codeBytes random bytes as uppercase hex.
func (s *Service) GenerateCode() (string, error) {
	buf := make([]byte, s.codeBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Issue stores a new invite for email. A colliding code is regenerated up to
// maxRetries times.
func (s *Service) Issue(ctx context.Context, email, question, club string, at time.Time) (*models.Invite, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		code, err := s.GenerateCode()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate invite code")
		}
		invite := &models.Invite{
			ID:       s.newID(),
			Email:    email,
			Code:     code,
			Club:     club,
			Question: question,
			Status:   models.InviteStatusSent,
			IssuedAt: at,
		}

		err = s.store.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save invite")
		}

		s.metrics.IncrementCodeCollisions()
		s.logger.WarnContext(ctx, "invite code collision",
			"attempt", attempt,
			"max_attempts", s.maxRetries,
			"code", invite.MaskedCode(),
		)
	}
	return nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeInternal, "failed to generate a unique invite code")
}
