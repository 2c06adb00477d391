package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
)

// RollupEngine maintains the daily snapshot series of ledger owners.
type RollupEngine struct {
	snapshotRepo SnapshotRepository
	calendar     domain.Calendar
	metrics      *metrics.Metrics
}

// NewRollupEngine creates a new RollupEngine.
func NewRollupEngine(snapshotRepo SnapshotRepository, calendar domain.Calendar, metrics *metrics.Metrics) *RollupEngine {
	return &RollupEngine{
		snapshotRepo: snapshotRepo,
		calendar:     calendar,
		metrics:      metrics,
	}
}

// Rollup copies owner's live counters into the snapshot of the day owning
// timestamp and recomputes its deltas. The first touch of a new day advances
// the owner's snapshot links; the caller must persist the owner afterwards.
func (e *RollupEngine) Rollup(ctx context.Context, tx Transaction, owner domain.SnapshotOwner, timestamp int64) (*domain.DailySnapshot, error) {
	day, err := e.calendar.Day(timestamp)
	if err != nil {
		return nil, domain.Invariant(err)
	}

	id := domain.SnapshotID(owner.OwnerID(), day.Number)
	links := owner.Links()

	snapshot, err := e.snapshotRepo.GetByID(ctx, tx, id)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		snapshot = domain.NewDailySnapshot(owner, day)
		links.Advance(id)

		if e.metrics != nil {
			e.metrics.SnapshotsCreated.WithLabelValues(string(owner.SnapshotScope())).Inc()
		}
	case err != nil:
		return nil, err
	}

	previous, err := e.previous(ctx, tx, links)
	if err != nil {
		return nil, err
	}

	snapshot.Capture(owner.Totals(), previous)
	if g, ok := owner.(*domain.GlobalLedger); ok {
		snapshot.CaptureAdmin(g)
	}

	if err := e.snapshotRepo.Save(ctx, tx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (e *RollupEngine) previous(ctx context.Context, tx Transaction, links *domain.DailyLinks) (*domain.DailySnapshot, error) {
	if links.PreviousDailyID == nil {
		return nil, nil
	}

	previous, err := e.snapshotRepo.GetByID(ctx, tx, *links.PreviousDailyID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, domain.Invariant(fmt.Errorf("previous snapshot %s: %w", *links.PreviousDailyID, err))
	}

	return previous, err
}
