package verify

import (
	"context"
	"sync"

	dErrors "skyparty/pkg/domain-errors"
)

// TxRunner runs one verification as a unit of work. key names the applicant so
// implementations can serialize per email.
type TxRunner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// MemoryTxRunner serializes units of work behind one coarse lock. It does not
// roll back, so the flow orders its writes so that the step most likely to fail
// (invite issuance) runs before the question is retired.
type MemoryTxRunner struct {
	mu sync.Mutex
}

func NewMemoryTxRunner() *MemoryTxRunner {
	return &MemoryTxRunner{}
}

func (r *MemoryTxRunner) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
