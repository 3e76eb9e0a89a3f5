package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopkit/shopkit/internal/port"
)

const maxTxAttempts = 3

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so a
// repository can run either directly against the pool or inside a
// transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) port.TxManager {
	return &txManager{pool: pool}
}

// WithinTx runs fn against tx-scoped stores. Conflicting transactions
// (serialization failure, deadlock) are retried a bounded number of times;
// every other error rolls back and surfaces as-is.
func (m *txManager) WithinTx(ctx context.Context, fn func(s port.Stores) error) error {
	var err error

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !retryable(err) {
			return err
		}
	}

	return fmt.Errorf("tx retries exhausted: %w", err)
}

func (m *txManager) runOnce(ctx context.Context, fn func(s port.Stores) error) (txErr error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	stores := port.Stores{
		Items: NewItemWithTx(tx),
		Carts: NewCartWithTx(tx),
	}

	if err := fn(stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	// serialization_failure, deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
