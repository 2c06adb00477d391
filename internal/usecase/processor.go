package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
)

// EventRouter dispatches events to the reducer registered for their kind.
type EventRouter struct {
	routes map[domain.EventKind]Reducer
}

// NewEventRouter creates an empty EventRouter.
func NewEventRouter() *EventRouter {
	return &EventRouter{routes: make(map[domain.EventKind]Reducer)}
}

// Handle registers reducer for kinds.
func (r *EventRouter) Handle(reducer Reducer, kinds ...domain.EventKind) *EventRouter {
	for _, kind := range kinds {
		r.routes[kind] = reducer
	}
	return r
}

// Apply implements Reducer.
func (r *EventRouter) Apply(ctx context.Context, tx Transaction, event domain.Event) error {
	reducer, ok := r.routes[event.Kind()]
	if !ok {
		return domain.Invariant(fmt.Errorf("%w: %s", domain.ErrUnknownEvent, event.Kind()))
	}
	return reducer.Apply(ctx, tx, event)
}

// NewLedgerRouter wires the billing and token reducers to their event kinds.
func NewLedgerRouter(billing *BillingUseCase, token *TokenUseCase) *EventRouter {
	return NewEventRouter().
		Handle(billing,
			domain.EventTokensAdded,
			domain.EventTokensRemoved,
			domain.EventTokensPulled,
			domain.EventInsufficientBalance,
			domain.EventCollectorUpdated,
			domain.EventNewOwnership,
		).
		Handle(token, domain.EventTransfer)
}

// Processor applies events one at a time, each in its own transaction
// together with the stream cursor, so a crash never applies an event twice.
type Processor struct {
	txManager  TransactionManager
	cursorRepo CursorRepository
	reducer    Reducer
	retrier    Retrier
	cursorID   string
	metrics    *metrics.Metrics
}

// NewProcessor creates a new Processor for the stream named cursorID.
func NewProcessor(
	txManager TransactionManager,
	cursorRepo CursorRepository,
	reducer Reducer,
	retrier Retrier,
	cursorID string,
	metrics *metrics.Metrics,
) *Processor {
	return &Processor{
		txManager:  txManager,
		cursorRepo: cursorRepo,
		reducer:    reducer,
		retrier:    retrier,
		cursorID:   cursorID,
		metrics:    metrics,
	}
}

// Process applies event unless the cursor already passed its position.
// It reports whether the event was applied. Errors matching
// domain.ErrInvariant are never retried and must stop the stream.
func (p *Processor) Process(ctx context.Context, event domain.Event) (bool, error) {
	start := time.Now()
	kind := string(event.Kind())

	var applied bool
	err := p.retrier.Retry(ctx, func() error {
		var err error
		applied, err = p.processOnce(ctx, event)
		return err
	})

	if p.metrics != nil {
		p.metrics.ProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		switch {
		case err != nil:
			p.metrics.EventErrors.WithLabelValues(kind).Inc()
		case applied:
			p.metrics.EventsProcessed.WithLabelValues(kind).Inc()
		}
	}

	if err != nil {
		meta := event.Metadata()
		return false, fmt.Errorf("event %s at %d/%d: %w", kind, meta.BlockNumber, meta.LogIndex, err)
	}

	return applied, nil
}

// Position returns the last applied position. ok is false before the first event.
func (p *Processor) Position(ctx context.Context) (pos domain.Position, ok bool, err error) {
	tx, err := p.txManager.Begin(ctx)
	if err != nil {
		return domain.Position{}, false, err
	}
	defer tx.Rollback(ctx)

	cursor, err := p.cursorRepo.Get(ctx, tx, p.cursorID)
	if errors.Is(err, domain.ErrCursorNotFound) {
		return domain.Position{}, false, nil
	}
	if err != nil {
		return domain.Position{}, false, err
	}

	return cursor.Position, true, nil
}

func (p *Processor) processOnce(ctx context.Context, event domain.Event) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := p.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(txCtx)

	position := event.Metadata().Position()

	cursor, err := p.cursorRepo.Get(txCtx, tx, p.cursorID)
	switch {
	case errors.Is(err, domain.ErrCursorNotFound):
		cursor = &domain.Cursor{ID: p.cursorID}
	case err != nil:
		return false, err
	case !position.After(cursor.Position):
		return false, nil
	}

	if err := p.reducer.Apply(txCtx, tx, event); err != nil {
		return false, err
	}

	cursor.Position = position
	if err := p.cursorRepo.Save(txCtx, tx, cursor); err != nil {
		return false, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return false, err
	}

	return true, nil
}
