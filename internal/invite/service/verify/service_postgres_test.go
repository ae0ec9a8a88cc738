//go:build integration

package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"skyparty/internal/invite/store/attempts"
	"skyparty/internal/invite/store/invites"
	"skyparty/internal/invite/store/lockout"
	"skyparty/internal/invite/store/usage"
	"skyparty/internal/platform/database"
	"skyparty/pkg/testutil/containers"
)

// TestVerifyPostgres runs the verification suite against a real server so the
// advisory lock and unique-claim paths are exercised under concurrency.
func TestVerifyPostgres(t *testing.T) {
	pg := containers.NewPostgresContainer(t)

	suite.Run(t, &VerifySuite{newFixture: func(t *testing.T, opts ...Option) *fixture {
		t.Helper()
		if err := pg.Truncate(context.Background()); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		f := &fixture{
			ledger:   usage.NewSQL(pg.DB),
			attempts: attempts.NewSQL(pg.DB),
			lockouts: lockout.NewSQL(pg.DB),
			invites:  invites.NewSQL(pg.DB),
			db:       pg.DB,
		}
		f.build(t, database.NewTxRunner(pg.DB, 0), opts...)
		return f
	}})
}
