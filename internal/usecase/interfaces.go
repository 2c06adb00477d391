package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/billingledger/internal/domain"
)

// AccountRepository defines data access for account ledgers.
type AccountRepository interface {
	// GetByIDForUpdate returns domain.ErrAccountNotFound when the account was never saved.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	Save(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// GlobalLedgerRepository defines data access for the singleton global ledger.
type GlobalLedgerRepository interface {
	// GetForUpdate returns domain.ErrGlobalLedgerNotFound before the first bootstrap.
	GetForUpdate(ctx context.Context, tx Transaction) (*domain.GlobalLedger, error)
	Save(ctx context.Context, tx Transaction, ledger *domain.GlobalLedger) error
	Get(ctx context.Context) (*domain.GlobalLedger, error)
}

// SnapshotRepository defines data access for daily snapshots.
type SnapshotRepository interface {
	// GetByID returns domain.ErrSnapshotNotFound when no snapshot has the id.
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.DailySnapshot, error)
	Save(ctx context.Context, tx Transaction, snapshot *domain.DailySnapshot) error
}

// RecordRepository defines data access for the transaction log.
type RecordRepository interface {
	SaveTransaction(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error
	SaveAnomaly(ctx context.Context, tx Transaction, record *domain.AnomalyRecord) error
}

// CursorRepository stores the position of the last applied event.
type CursorRepository interface {
	// Get returns domain.ErrCursorNotFound when nothing was processed yet.
	Get(ctx context.Context, tx Transaction, id string) (*domain.Cursor, error)
	Save(ctx context.Context, tx Transaction, cursor *domain.Cursor) error
}

// LedgerTotals is the field-wise sum of every account next to the global
// ledger's counters, both taken from the same committed state.
type LedgerTotals struct {
	AccountCount int64
	Accounts     domain.Counters
	// Global is zero before the global ledger is bootstrapped.
	Global domain.Counters
}

// LedgerRepository defines data access for ledger-wide aggregates.
type LedgerRepository interface {
	// Totals reads the account sums and the global counters in one read, so
	// a commit landing during the call is seen by both or by neither.
	Totals(ctx context.Context) (*LedgerTotals, error)
}

// GovernorSource reads the current governor of a billing contract from the chain.
type GovernorSource interface {
	Governor(ctx context.Context, contract string) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Reducer applies one decoded event inside an open transaction.
type Reducer interface {
	Apply(ctx context.Context, tx Transaction, event domain.Event) error
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
