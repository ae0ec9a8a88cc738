package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"skyparty/internal/invite/models"
	"skyparty/internal/invite/ports/mocks"
	"skyparty/internal/invite/store/invites"
	"skyparty/internal/invite/store/lockout"
	"skyparty/internal/invite/store/usage"
	dErrors "skyparty/pkg/domain-errors"
)

type AdminServiceSuite struct {
	suite.Suite
	lockouts *lockout.InMemoryLockoutStore
	invites  *invites.InMemoryInviteStore
	ledger   *usage.InMemoryUsageLedger
	svc      *Service
}

func TestAdminService(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.lockouts = lockout.New()
	s.invites = invites.New()
	s.ledger = usage.New()
	svc, err := New(s.lockouts, s.invites, s.ledger)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *AdminServiceSuite) TestListLockouts() {
	ctx := context.Background()
	at := time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC)

	s.Run("empty list is not nil", func() {
		list, err := s.svc.ListLockouts(ctx, 0)
		s.Require().NoError(err)
		s.NotNil(list)
		s.Empty(list)
	})

	s.Run("newest first", func() {
		_, _ = s.lockouts.Lock(ctx, "a@example.com", models.LockReason(4), at)
		_, _ = s.lockouts.Lock(ctx, "b@example.com", models.LockReason(4), at.Add(time.Minute))

		list, err := s.svc.ListLockouts(ctx, 5000)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal("b@example.com", list[0].Email)
	})
}

func (s *AdminServiceSuite) TestGetLockout() {
	ctx := context.Background()
	_, _ = s.lockouts.Lock(ctx, "ada@example.com", models.LockReason(4), time.Now())

	rec, err := s.svc.GetLockout(ctx, " ADA@example.com ")
	s.Require().NoError(err)
	s.Equal("4 failed attempts", rec.Reason)

	_, err = s.svc.GetLockout(ctx, "bola@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.svc.GetLockout(ctx, "  ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AdminServiceSuite) TestListInvites() {
	ctx := context.Background()
	s.Require().NoError(s.invites.Create(ctx, &models.Invite{ID: "1", Email: "ada@example.com", Code: "C0DE0001"}))

	list, err := s.svc.ListInvites(ctx, "Ada@Example.com")
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.svc.ListInvites(ctx, "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AdminServiceSuite) TestListRetired() {
	ctx := context.Background()
	_, _ = s.ledger.Retire(ctx, "Q1", time.Now())

	list, err := s.svc.ListRetired(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Q1", list[0].Question)
}

func (s *AdminServiceSuite) TestStoreFailures() {
	ctrl := gomock.NewController(s.T())
	lockouts := mocks.NewMockLockoutRegistry(ctrl)
	ledger := mocks.NewMockUsageLedger(ctrl)
	svc, err := New(lockouts, s.invites, ledger)
	s.Require().NoError(err)

	lockouts.EXPECT().List(gomock.Any(), DefaultListLimit).Return(nil, errors.New("timeout"))
	_, err = svc.ListLockouts(context.Background(), -1)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	ledger.EXPECT().ListRetired(gomock.Any()).Return(nil, errors.New("timeout"))
	_, err = svc.ListRetired(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
