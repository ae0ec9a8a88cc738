package database

import (
	"context"
	"fmt"
	"time"

	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/tx"
)

const DefaultTxTimeout = 5 * time.Second

// TxRunner runs a unit of work in one SQL transaction. On PostgreSQL it also takes
// a transaction-scoped advisory lock on key so work for the same applicant is
// serialized across processes; SQLite is already serialized by its single connection.
type TxRunner struct {
	db      *DB
	timeout time.Duration
}

func NewTxRunner(db *DB, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &TxRunner{db: db, timeout: timeout}
}

// RunInTx commits when fn returns nil and rolls back otherwise. Stores reach the
// transaction through the context passed to fn.
func (r *TxRunner) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if r.db.Dialect == DialectPostgres && key != "" {
		if _, err := sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
	}

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
