package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/postgres/generated"
	"github.com/iho/billingledger/internal/usecase"
)

// CursorRepository implements usecase.CursorRepository.
type CursorRepository struct{}

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository() *CursorRepository {
	return &CursorRepository{}
}

// Get locks the cursor row so concurrent indexers serialize on it.
func (r *CursorRepository) Get(ctx context.Context, tx usecase.Transaction, id string) (*domain.Cursor, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetCursorForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCursorNotFound
		}
		return nil, err
	}

	return &domain.Cursor{
		ID: row.ID,
		Position: domain.Position{
			BlockNumber: uint64(row.BlockNumber),
			LogIndex:    uint64(row.LogIndex),
		},
	}, nil
}

func (r *CursorRepository) Save(ctx context.Context, tx usecase.Transaction, cursor *domain.Cursor) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpsertCursor(ctx, generated.UpsertCursorParams{
		ID:          cursor.ID,
		BlockNumber: int64(cursor.Position.BlockNumber),
		LogIndex:    int64(cursor.Position.LogIndex),
		UpdatedAt:   timeToPgTimestamptz(time.Now().UTC()),
	})
}
