package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"skyparty/internal/platform/database"
	audit "skyparty/pkg/platform/audit"
)

type SQLAuditStoreSuite struct {
	suite.Suite
	db    *database.DB
	store *Store
}

func TestSQLAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLAuditStoreSuite))
}

func (s *SQLAuditStoreSuite) SetupTest() {
	db, err := database.OpenSQLite(filepath.Join(s.T().TempDir(), "audit.db"))
	s.Require().NoError(err)
	s.db = db
	s.store = New(db)
}

func (s *SQLAuditStoreSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *SQLAuditStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		ID: "e1", Timestamp: base, Subject: "ada@example.com",
		Action: string(audit.EventChallengeFailed), Question: "Q?", Reason: "attempt 1/4",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		ID: "e2", Timestamp: base.Add(time.Minute), Subject: "ada@example.com",
		Action: string(audit.EventApplicantLocked), Reason: "4 failed attempts",
	}))
	s.Require().NoError(s.store.Append(ctx, audit.Event{
		ID: "e3", Timestamp: base.Add(2 * time.Minute), Subject: "bob@example.com",
		Action: string(audit.EventInviteIssued),
	}))

	s.Run("by subject in chronological order", func() {
		events, err := s.store.ListBySubject(ctx, "ada@example.com")
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("e1", events[0].ID)
		s.Equal(audit.CategorySecurity, events[0].Category)
		s.Equal(base, events[0].Timestamp)
		s.Equal(audit.CategoryCompliance, events[1].Category)
	})

	s.Run("recent newest first", func() {
		events, err := s.store.ListRecent(ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("e3", events[0].ID)
		s.Equal("e2", events[1].ID)
	})

	s.Run("duplicate id is ignored", func() {
		s.Require().NoError(s.store.Append(ctx, audit.Event{
			ID: "e1", Timestamp: base, Subject: "ada@example.com", Action: "dup",
		}))
		events, err := s.store.ListBySubject(ctx, "ada@example.com")
		s.Require().NoError(err)
		s.Len(events, 2)
	})
}
