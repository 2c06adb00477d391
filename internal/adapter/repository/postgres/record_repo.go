package postgres

import (
	"context"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/postgres/generated"
	"github.com/iho/billingledger/internal/usecase"
)

// RecordRepository implements usecase.RecordRepository. Records are written
// only inside the event transaction, so it holds no pool.
type RecordRepository struct{}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// SaveTransaction writes record, overwriting any record with the same id.
func (r *RecordRepository) SaveTransaction(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpsertTransactionRecord(ctx, generated.UpsertTransactionRecordParams{
		ID:          record.ID,
		Kind:        string(record.Kind),
		Hash:        record.Hash,
		BlockNumber: int64(record.BlockNumber),
		Timestamp:   record.Timestamp,
		UserID:      record.User,
		Amount:      decimalToNumeric(record.Amount),
		ToAddress:   ptrToText(record.To),
	})
}

func (r *RecordRepository) SaveAnomaly(ctx context.Context, tx usecase.Transaction, record *domain.AnomalyRecord) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	return queries.UpsertAnomalyRecord(ctx, generated.UpsertAnomalyRecordParams{
		ID:          record.ID,
		Hash:        record.Hash,
		BlockNumber: int64(record.BlockNumber),
		Timestamp:   record.Timestamp,
		UserID:      record.User,
		ToAddress:   record.To,
		Amount:      decimalToNumeric(record.Amount),
	})
}
