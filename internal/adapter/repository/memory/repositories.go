package memory

import (
	"context"
	"sort"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pending, err := overlay(tx)
	if err != nil {
		return nil, err
	}

	account, ok := lookup(r.store, pending, func(s *state) map[string]domain.Account { return s.accounts }, id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *AccountRepository) Save(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.GetByIDForUpdate(ctx, nil, id)
}

// List returns accounts ordered by id.
func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := make([]string, 0, len(r.store.committed.accounts))
	for id := range r.store.committed.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return []*domain.Account{}, nil
	}
	ids = ids[offset:min(len(ids), offset+limit)]

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account := r.store.committed.accounts[id]
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

// GlobalLedgerRepository implements usecase.GlobalLedgerRepository.
type GlobalLedgerRepository struct {
	store *Store
}

// NewGlobalLedgerRepository creates a new GlobalLedgerRepository.
func NewGlobalLedgerRepository(store *Store) *GlobalLedgerRepository {
	return &GlobalLedgerRepository{store: store}
}

func (r *GlobalLedgerRepository) GetForUpdate(_ context.Context, tx usecase.Transaction) (*domain.GlobalLedger, error) {
	pending, err := overlay(tx)
	if err != nil {
		return nil, err
	}
	if pending != nil && pending.global != nil {
		return cloneGlobal(pending.global), nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.committed.global == nil {
		return nil, domain.ErrGlobalLedgerNotFound
	}
	return cloneGlobal(r.store.committed.global), nil
}

func (r *GlobalLedgerRepository) Save(_ context.Context, tx usecase.Transaction, ledger *domain.GlobalLedger) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.global = cloneGlobal(ledger)
	return nil
}

func (r *GlobalLedgerRepository) Get(ctx context.Context) (*domain.GlobalLedger, error) {
	return r.GetForUpdate(ctx, nil)
}

// SnapshotRepository implements usecase.SnapshotRepository.
type SnapshotRepository struct {
	store *Store
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(store *Store) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

func (r *SnapshotRepository) GetByID(_ context.Context, tx usecase.Transaction, id string) (*domain.DailySnapshot, error) {
	pending, err := overlay(tx)
	if err != nil {
		return nil, err
	}

	snapshot, ok := lookup(r.store, pending, func(s *state) map[string]domain.DailySnapshot { return s.snapshots }, id)
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	snapshot = cloneSnapshot(snapshot)
	return &snapshot, nil
}

func (r *SnapshotRepository) Save(_ context.Context, tx usecase.Transaction, snapshot *domain.DailySnapshot) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.snapshots[snapshot.ID] = cloneSnapshot(*snapshot)
	return nil
}

// RecordRepository implements usecase.RecordRepository.
type RecordRepository struct {
	store *Store
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(store *Store) *RecordRepository {
	return &RecordRepository{store: store}
}

// SaveTransaction writes record, overwriting any record with the same id.
func (r *RecordRepository) SaveTransaction(_ context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.transactions[record.ID] = *record
	return nil
}

func (r *RecordRepository) SaveAnomaly(_ context.Context, tx usecase.Transaction, record *domain.AnomalyRecord) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.anomalies[record.ID] = *record
	return nil
}

// GetTransaction returns a committed transaction record.
func (r *RecordRepository) GetTransaction(_ context.Context, id string) (*domain.TransactionRecord, bool) {
	record, ok := lookup(r.store, nil, func(s *state) map[string]domain.TransactionRecord { return s.transactions }, id)
	return &record, ok
}

// GetAnomaly returns a committed anomaly record.
func (r *RecordRepository) GetAnomaly(_ context.Context, id string) (*domain.AnomalyRecord, bool) {
	record, ok := lookup(r.store, nil, func(s *state) map[string]domain.AnomalyRecord { return s.anomalies }, id)
	return &record, ok
}

// CountTransactions returns the number of committed transaction records.
func (r *RecordRepository) CountTransactions() int {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.committed.transactions)
}

// CursorRepository implements usecase.CursorRepository.
type CursorRepository struct {
	store *Store
}

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository(store *Store) *CursorRepository {
	return &CursorRepository{store: store}
}

func (r *CursorRepository) Get(_ context.Context, tx usecase.Transaction, id string) (*domain.Cursor, error) {
	pending, err := overlay(tx)
	if err != nil {
		return nil, err
	}

	cursor, ok := lookup(r.store, pending, func(s *state) map[string]domain.Cursor { return s.cursors }, id)
	if !ok {
		return nil, domain.ErrCursorNotFound
	}
	return &cursor, nil
}

func (r *CursorRepository) Save(_ context.Context, tx usecase.Transaction, cursor *domain.Cursor) error {
	pending, err := writable(tx)
	if err != nil {
		return err
	}
	pending.cursors[cursor.ID] = *cursor
	return nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Totals sums the committed accounts and reads the global ledger under one
// read lock, so no commit can land between the two.
func (r *LedgerRepository) Totals(_ context.Context) (*usecase.LedgerTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	totals := &usecase.LedgerTotals{AccountCount: int64(len(r.store.committed.accounts))}
	for _, account := range r.store.committed.accounts {
		totals.Accounts = totals.Accounts.Add(account.Counters)
	}
	if g := r.store.committed.global; g != nil {
		totals.Global = g.Counters
	}
	return totals, nil
}

// Retrier implements usecase.Retrier. The in-memory store has no transient
// failures, so operations run exactly once.
type Retrier struct{}

func (Retrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
