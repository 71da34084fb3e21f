package postgres

import (
	"context"
	"fmt"

	"github.com/FocusFish/USM/internal/core/port"
)

// TxRunner implements port.AccountTxRunner. It opens a transaction, locks the
// account row, and hands a transaction-bound repository to fn so that
// failure-counter and lockout updates commit atomically with the login
// decision.
type TxRunner struct {
	beginner txBeginner
}

// NewTxRunner constructs a TxRunner for the supplied pool.
func NewTxRunner(beginner txBeginner) *TxRunner {
	return &TxRunner{beginner: beginner}
}

// WithAccountLock runs fn inside a transaction. fn is expected to read the
// account with GetByUserNameForUpdate, taking a row-level lock so two
// concurrent attempts for the same user cannot both observe an expired
// lockout and race the clear/increment updates.
func (t *TxRunner) WithAccountLock(ctx context.Context, fn func(ctx context.Context, accounts port.AccountRepository) error) error {
	tx, err := t.beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin account tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, NewAccountRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit account tx: %w", err)
	}

	return nil
}

var _ port.AccountTxRunner = (*TxRunner)(nil)
