// Package memory provides in-memory implementations of the usecase ports.
// Writes made inside a transaction are visible to later reads of the same
// transaction and reach the shared state only on Commit.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/usecase"
)

var (
	errTxDone = errors.New("memory: transaction already finished")
	errNoTx   = errors.New("memory: write outside a transaction")
)

type state struct {
	accounts     map[string]domain.Account
	global       *domain.GlobalLedger
	snapshots    map[string]domain.DailySnapshot
	transactions map[string]domain.TransactionRecord
	anomalies    map[string]domain.AnomalyRecord
	cursors      map[string]domain.Cursor
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		snapshots:    make(map[string]domain.DailySnapshot),
		transactions: make(map[string]domain.TransactionRecord),
		anomalies:    make(map[string]domain.AnomalyRecord),
		cursors:      make(map[string]domain.Cursor),
	}
}

// Store is the committed state shared by every repository of one store.
type Store struct {
	mu        sync.RWMutex
	committed *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Tx is a pending overlay on top of the committed state.
type Tx struct {
	store   *Store
	pending *state
	done    bool
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(_ context.Context) (usecase.Transaction, error) {
	return &Tx{store: m.store, pending: newState()}, nil
}

// Commit publishes the pending writes atomically.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range t.pending.accounts {
		s.committed.accounts[id] = v
	}
	if t.pending.global != nil {
		s.committed.global = cloneGlobal(t.pending.global)
	}
	for id, v := range t.pending.snapshots {
		s.committed.snapshots[id] = v
	}
	for id, v := range t.pending.transactions {
		s.committed.transactions[id] = v
	}
	for id, v := range t.pending.anomalies {
		s.committed.anomalies[id] = v
	}
	for id, v := range t.pending.cursors {
		s.committed.cursors[id] = v
	}

	return nil
}

// Rollback discards the pending writes. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	t.done = true
	t.pending = newState()
	return nil
}

// overlay returns the pending state of tx, or nil when reads must only see committed data.
func overlay(tx usecase.Transaction) (*state, error) {
	if tx == nil {
		return nil, nil
	}
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("memory: foreign transaction")
	}
	if t.done {
		return nil, errTxDone
	}
	return t.pending, nil
}

// writable returns the pending state of tx, rejecting writes outside a transaction.
func writable(tx usecase.Transaction) (*state, error) {
	pending, err := overlay(tx)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, errNoTx
	}
	return pending, nil
}

func lookup[V any](s *Store, pending *state, pick func(*state) map[string]V, id string) (V, bool) {
	if pending != nil {
		if v, ok := pick(pending)[id]; ok {
			return v, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := pick(s.committed)[id]
	return v, ok
}

func cloneGlobal(g *domain.GlobalLedger) *domain.GlobalLedger {
	c := *g
	c.Collectors = slices.Clone(g.Collectors)
	return &c
}

func cloneSnapshot(s domain.DailySnapshot) domain.DailySnapshot {
	s.Collectors = slices.Clone(s.Collectors)
	return s
}
