package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billingledger/internal/usecase"
)

type pgxPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxConfig tunes the transactions opened for event processing.
type TxConfig struct {
	IsoLevel pgx.TxIsoLevel
	// LockTimeout bounds row lock waits inside the transaction. A timed out
	// wait fails with 55P03, which the Retrier treats as transient.
	LockTimeout time.Duration
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool pgxPool
	cfg  TxConfig
}

// NewTxManager creates a TxManager using the server defaults.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool, TxConfig{})
}

// NewTxManagerWithConfig creates a TxManager with explicit isolation and lock timeout.
func NewTxManagerWithConfig(pool *pgxpool.Pool, cfg TxConfig) *TxManager {
	return newTxManagerWithPool(pool, cfg)
}

func newTxManagerWithPool(pool pgxPool, cfg TxConfig) *TxManager {
	return &TxManager{pool: pool, cfg: cfg}
}

// Begin opens a transaction and applies the configured lock timeout to it.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: m.cfg.IsoLevel})
	if err != nil {
		return nil, err
	}

	if m.cfg.LockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", m.cfg.LockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a committed transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
