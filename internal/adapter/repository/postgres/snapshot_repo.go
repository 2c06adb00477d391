package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/postgres/generated"
	"github.com/iho/billingledger/internal/usecase"
)

// SnapshotRepository implements usecase.SnapshotRepository.
type SnapshotRepository struct {
	queries *generated.Queries
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{queries: generated.New(pool)}
}

// GetByID reads through tx when one is given, otherwise from the pool.
func (r *SnapshotRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.DailySnapshot, error) {
	queries := r.queries
	if tx != nil {
		queries = generated.New(tx.(*Tx).PgxTx())
	}

	row, err := queries.GetDailySnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}

	return rowToSnapshot(row), nil
}

func (r *SnapshotRepository) Save(ctx context.Context, tx usecase.Transaction, s *domain.DailySnapshot) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	params := generated.UpsertDailySnapshotParams{
		ID:                 s.ID,
		Scope:              string(s.Scope),
		OwnerID:            s.OwnerID,
		DayNumber:          s.DayNumber,
		DayStart:           s.DayStart,
		DayEnd:             s.DayEnd,
		Balance:            decimalToNumeric(s.Counters.Balance),
		TokensAdded:        decimalToNumeric(s.Counters.TokensAdded),
		TokensRemoved:      decimalToNumeric(s.Counters.TokensRemoved),
		TokensPulled:       decimalToNumeric(s.Counters.TokensPulled),
		BalanceDelta:       decimalToNumeric(s.Deltas.Balance),
		TokensAddedDelta:   decimalToNumeric(s.Deltas.TokensAdded),
		TokensRemovedDelta: decimalToNumeric(s.Deltas.TokensRemoved),
		TokensPulledDelta:  decimalToNumeric(s.Deltas.TokensPulled),
	}
	// Administrative columns stay NULL on account snapshots.
	if s.Scope == domain.ScopeGlobal {
		params.Governor = pgtype.Text{String: s.Governor, Valid: true}
		params.Collectors = nonNilStrings(s.Collectors)
	}

	return queries.UpsertDailySnapshot(ctx, params)
}

func rowToSnapshot(row generated.DailySnapshot) *domain.DailySnapshot {
	s := &domain.DailySnapshot{
		ID:        row.ID,
		Scope:     domain.SnapshotScope(row.Scope),
		OwnerID:   row.OwnerID,
		DayNumber: row.DayNumber,
		DayStart:  row.DayStart,
		DayEnd:    row.DayEnd,
		Counters:  countersFromRow(row.Balance, row.TokensAdded, row.TokensRemoved, row.TokensPulled),
		Deltas:    countersFromRow(row.BalanceDelta, row.TokensAddedDelta, row.TokensRemovedDelta, row.TokensPulledDelta),
	}
	if s.Scope == domain.ScopeGlobal {
		s.Governor = row.Governor.String
		s.Collectors = nonNilStrings(row.Collectors)
	}
	return s
}
