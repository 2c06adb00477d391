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

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// Save inserts or replaces the account.
func (r *AccountRepository) Save(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpsertAccount(ctx, generated.UpsertAccountParams{
		ID:              account.ID,
		Balance:         decimalToNumeric(account.Balance),
		TokensAdded:     decimalToNumeric(account.TokensAdded),
		TokensRemoved:   decimalToNumeric(account.TokensRemoved),
		TokensPulled:    decimalToNumeric(account.TokensPulled),
		TokenBalance:    decimalToNumeric(account.TokenBalance),
		CurrentDailyID:  ptrToText(account.CurrentDailyID),
		PreviousDailyID: ptrToText(account.PreviousDailyID),
		UpdatedAt:       timeToPgTimestamptz(time.Now().UTC()),
	})
}

// List lists accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:           row.ID,
		Counters:     countersFromRow(row.Balance, row.TokensAdded, row.TokensRemoved, row.TokensPulled),
		TokenBalance: numericToDecimal(row.TokenBalance),
		DailyLinks:   linksFromRow(row.CurrentDailyID, row.PreviousDailyID),
	}
}
