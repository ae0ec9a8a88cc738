package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"skyparty/pkg/platform/tx"
)

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DialectPostgres}
	lite := &DB{Dialect: DialectSQLite}

	query := `SELECT a FROM t WHERE x = ? AND y = '?' AND z = ?`
	assert.Equal(t, `SELECT a FROM t WHERE x = $1 AND y = '?' AND z = $2`, pg.Rebind(query))
	assert.Equal(t, query, lite.Rebind(query))
}

func TestSplitStatements(t *testing.T) {
	body := `
-- leading comment
CREATE TABLE a (id TEXT);

CREATE INDEX i ON a (id);
-- trailing comment
`
	stmts := SplitStatements(body)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id TEXT)", stmts[0])
	assert.Equal(t, "CREATE INDEX i ON a (id)", stmts[1])
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id TEXT);\n", ExtractUpMigration(content))
	assert.Equal(t, "SELECT 1", ExtractUpMigration("SELECT 1"))
}

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2025, 5, 4, 3, 2, 1, 987_000_000, time.UTC)
	assert.Equal(t, ts, FromMillis(ToMillis(ts)))
}

type SQLiteSuite struct {
	suite.Suite
	db *DB
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}

func (s *SQLiteSuite) SetupTest() {
	db, err := OpenSQLite(filepath.Join(s.T().TempDir(), "test.db"))
	s.Require().NoError(err)
	s.db = db
}

func (s *SQLiteSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *SQLiteSuite) TestMigrationsAreIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.db.Migrate(ctx))

	var n int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	s.Equal(2, n)
}

func (s *SQLiteSuite) TestRunInTx() {
	ctx := context.Background()
	runner := NewTxRunner(s.db, time.Second)

	insert := func(ctx context.Context, question string) error {
		_, err := s.db.Executor(ctx).ExecContext(ctx,
			`INSERT INTO used_questions (question, retired_at) VALUES (?, ?)`, question, 1)
		return err
	}
	count := func() int {
		var n int
		s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM used_questions`).Scan(&n))
		return n
	}

	s.Run("commits on success", func() {
		err := runner.RunInTx(ctx, "ada@example.com", func(ctx context.Context) error {
			_, ok := tx.From(ctx)
			s.True(ok, "transaction must be carried in context")
			return insert(ctx, "q1")
		})
		s.Require().NoError(err)
		s.Equal(1, count())
	})

	s.Run("rolls back on error", func() {
		boom := errors.New("boom")
		err := runner.RunInTx(ctx, "ada@example.com", func(ctx context.Context) error {
			s.Require().NoError(insert(ctx, "q2"))
			return boom
		})
		s.ErrorIs(err, boom)
		s.Equal(1, count())
	})

	s.Run("cancelled context never opens a transaction", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		called := false
		err := runner.RunInTx(cctx, "", func(context.Context) error {
			called = true
			return nil
		})
		s.Error(err)
		s.False(called)
	})
}
