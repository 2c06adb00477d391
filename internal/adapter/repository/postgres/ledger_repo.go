package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billingledger/internal/infrastructure/postgres/generated"
	"github.com/iho/billingledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals reads the account sums and the global row in a single statement,
// which sees one snapshot even under READ COMMITTED.
func (r *LedgerRepository) Totals(ctx context.Context) (*usecase.LedgerTotals, error) {
	row, err := r.queries.LedgerTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &usecase.LedgerTotals{
		AccountCount: row.Accounts,
		Accounts:     countersFromRow(row.Balance, row.TokensAdded, row.TokensRemoved, row.TokensPulled),
		Global:       countersFromRow(row.GlobalBalance, row.GlobalTokensAdded, row.GlobalTokensRemoved, row.GlobalTokensPulled),
	}, nil
}
