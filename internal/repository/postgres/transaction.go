package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clipnest/internal/domain"
	"clipnest/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise (including on panic).
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return domain.Unavailable("begin transaction", fmt.Errorf("begin transaction: %w", err))
	}

	done := false
	defer func() {
		if done {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			tm.logger.Error("rollback failed", "error", rbErr)
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx)); err != nil {
		return err
	}

	done = true
	if err := tx.Commit(ctx); err != nil {
		return domain.Unavailable("commit transaction", fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}
