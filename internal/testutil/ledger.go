package testutil

import (
	"context"
	"testing"

	"github.com/iho/billingledger/internal/adapter/repository/memory"
	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/usecase"
)

// StaticGovernor is a usecase.GovernorSource returning a fixed address.
type StaticGovernor string

func (g StaticGovernor) Governor(context.Context, string) (string, error) {
	return string(g), nil
}

// MemoryLedger wires the reducers and the processor over an in-memory store.
type MemoryLedger struct {
	Store      *memory.Store
	Accounts   *memory.AccountRepository
	Globals    *memory.GlobalLedgerRepository
	Snapshots  *memory.SnapshotRepository
	Records    *memory.RecordRepository
	Cursors    *memory.CursorRepository
	Ledger     *memory.LedgerRepository
	TxManager  *memory.TxManager
	Billing    *usecase.BillingUseCase
	Token      *usecase.TokenUseCase
	Processor  *usecase.Processor
	Reconciler *usecase.ReconciliationUseCase
	t          *testing.T
}

// NewMemoryLedger builds a MemoryLedger on the default calendar whose
// global ledger bootstraps with Governor.
func NewMemoryLedger(t *testing.T) *MemoryLedger {
	t.Helper()
	return NewMemoryLedgerWith(t, domain.DefaultCalendar, StaticGovernor(Governor))
}

// NewMemoryLedgerWith builds a MemoryLedger with a custom calendar and governor source.
func NewMemoryLedgerWith(t *testing.T, calendar domain.Calendar, governors usecase.GovernorSource) *MemoryLedger {
	t.Helper()

	store := memory.NewStore()
	l := &MemoryLedger{
		Store:     store,
		Accounts:  memory.NewAccountRepository(store),
		Globals:   memory.NewGlobalLedgerRepository(store),
		Snapshots: memory.NewSnapshotRepository(store),
		Records:   memory.NewRecordRepository(store),
		Cursors:   memory.NewCursorRepository(store),
		Ledger:    memory.NewLedgerRepository(store),
		TxManager: memory.NewTxManager(store),
		t:         t,
	}

	resolver := usecase.NewIdentityResolver(l.Accounts, l.Globals, governors)
	rollup := usecase.NewRollupEngine(l.Snapshots, calendar, nil)
	txLog := usecase.NewTransactionLog(l.Records, nil)

	l.Billing = usecase.NewBillingUseCase(resolver, rollup, txLog, l.Accounts, l.Globals)
	l.Token = usecase.NewTokenUseCase(resolver, l.Accounts)
	l.Processor = usecase.NewProcessor(
		l.TxManager,
		l.Cursors,
		usecase.NewLedgerRouter(l.Billing, l.Token),
		memory.Retrier{},
		usecase.BillingCursorID,
		nil,
	)
	l.Reconciler = usecase.NewReconciliationUseCase(l.Accounts, l.Snapshots, l.Ledger)

	return l
}

// Apply processes events in order and fails the test on the first error.
func (l *MemoryLedger) Apply(events ...domain.Event) {
	l.t.Helper()

	for _, e := range events {
		if _, err := l.Processor.Process(context.Background(), e); err != nil {
			l.t.Fatalf("failed to process %s: %v", e.Kind(), err)
		}
	}
}

// Account returns the committed account or fails the test.
func (l *MemoryLedger) Account(id string) *domain.Account {
	l.t.Helper()

	account, err := l.Accounts.GetByID(context.Background(), id)
	if err != nil {
		l.t.Fatalf("account %s: %v", id, err)
	}
	return account
}

// Global returns the committed global ledger or fails the test.
func (l *MemoryLedger) Global() *domain.GlobalLedger {
	l.t.Helper()

	global, err := l.Globals.Get(context.Background())
	if err != nil {
		l.t.Fatalf("global ledger: %v", err)
	}
	return global
}

// Snapshot returns a committed snapshot or fails the test.
func (l *MemoryLedger) Snapshot(ownerID string, day int64) *domain.DailySnapshot {
	l.t.Helper()

	snapshot, err := l.Snapshots.GetByID(context.Background(), nil, domain.SnapshotID(ownerID, day))
	if err != nil {
		l.t.Fatalf("snapshot %s/%d: %v", ownerID, day, err)
	}
	return snapshot
}
