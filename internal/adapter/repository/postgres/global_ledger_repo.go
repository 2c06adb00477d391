package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/postgres/generated"
	"github.com/iho/billingledger/internal/usecase"
)

// GlobalLedgerRepository implements usecase.GlobalLedgerRepository.
type GlobalLedgerRepository struct {
	queries *generated.Queries
}

// NewGlobalLedgerRepository creates a new GlobalLedgerRepository.
func NewGlobalLedgerRepository(pool *pgxpool.Pool) *GlobalLedgerRepository {
	return &GlobalLedgerRepository{queries: generated.New(pool)}
}

// Get returns the committed global ledger.
func (r *GlobalLedgerRepository) Get(ctx context.Context) (*domain.GlobalLedger, error) {
	row, err := r.queries.GetGlobalLedger(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGlobalLedgerNotFound
		}
		return nil, err
	}

	return rowToGlobalLedger(row), nil
}

// GetForUpdate locks the global ledger row for the rest of tx.
func (r *GlobalLedgerRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction) (*domain.GlobalLedger, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetGlobalLedgerForUpdate(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGlobalLedgerNotFound
		}
		return nil, err
	}

	return rowToGlobalLedger(row), nil
}

func (r *GlobalLedgerRepository) Save(ctx context.Context, tx usecase.Transaction, ledger *domain.GlobalLedger) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpsertGlobalLedger(ctx, generated.UpsertGlobalLedgerParams{
		ID:              ledger.ID,
		Governor:        ledger.Governor,
		Collectors:      nonNilStrings(ledger.Collectors),
		Balance:         decimalToNumeric(ledger.Balance),
		TokensAdded:     decimalToNumeric(ledger.TokensAdded),
		TokensRemoved:   decimalToNumeric(ledger.TokensRemoved),
		TokensPulled:    decimalToNumeric(ledger.TokensPulled),
		CurrentDailyID:  ptrToText(ledger.CurrentDailyID),
		PreviousDailyID: ptrToText(ledger.PreviousDailyID),
		UpdatedAt:       timeToPgTimestamptz(time.Now().UTC()),
	})
}

func rowToGlobalLedger(row generated.GlobalLedger) *domain.GlobalLedger {
	return &domain.GlobalLedger{
		ID:         row.ID,
		Governor:   row.Governor,
		Collectors: nonNilStrings(row.Collectors),
		Counters:   countersFromRow(row.Balance, row.TokensAdded, row.TokensRemoved, row.TokensPulled),
		DailyLinks: linksFromRow(row.CurrentDailyID, row.PreviousDailyID),
	}
}
