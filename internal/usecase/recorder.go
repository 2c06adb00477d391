package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
)

// TransactionLog appends immutable records for processed events.
// It never reads or mutates ledger state.
type TransactionLog struct {
	recordRepo RecordRepository
	metrics    *metrics.Metrics
}

// NewTransactionLog creates a new TransactionLog.
func NewTransactionLog(recordRepo RecordRepository, metrics *metrics.Metrics) *TransactionLog {
	return &TransactionLog{recordRepo: recordRepo, metrics: metrics}
}

// Record writes the transaction record of kind for the event described by meta.
// to is only kept for external debits.
func (l *TransactionLog) Record(
	ctx context.Context,
	tx Transaction,
	kind domain.RecordKind,
	meta domain.EventMeta,
	user string,
	amount decimal.Decimal,
	to string,
) (*domain.TransactionRecord, error) {
	record := &domain.TransactionRecord{
		ID:          meta.RecordID(),
		Kind:        kind,
		Hash:        meta.TxHash,
		BlockNumber: meta.BlockNumber,
		Timestamp:   meta.Timestamp,
		User:        user,
		Amount:      amount,
	}
	if kind == domain.RecordTokensRemoved {
		record.To = &to
	}

	if err := l.recordRepo.SaveTransaction(ctx, tx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// RecordAnomaly writes the anomaly record of a rejected removal.
func (l *TransactionLog) RecordAnomaly(
	ctx context.Context,
	tx Transaction,
	meta domain.EventMeta,
	from, to string,
	amount decimal.Decimal,
) (*domain.AnomalyRecord, error) {
	record := &domain.AnomalyRecord{
		ID:          meta.RecordID(),
		Hash:        meta.TxHash,
		BlockNumber: meta.BlockNumber,
		Timestamp:   meta.Timestamp,
		User:        from,
		To:          to,
		Amount:      amount,
	}

	if err := l.recordRepo.SaveAnomaly(ctx, tx, record); err != nil {
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.AnomaliesRecorded.Inc()
	}

	return record, nil
}
