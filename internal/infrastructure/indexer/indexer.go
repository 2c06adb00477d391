package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
)

// EventSource delivers decoded contract events by block range.
type EventSource interface {
	Head(ctx context.Context) (uint64, error)
	Fetch(ctx context.Context, from, to uint64) ([]domain.Event, error)
}

// EventProcessor applies one event in its own transaction.
type EventProcessor interface {
	Process(ctx context.Context, event domain.Event) (bool, error)
	Position(ctx context.Context) (domain.Position, bool, error)
}

// Indexer polls the chain and feeds confirmed events to the processor in order.
type Indexer struct {
	source        EventSource
	processor     EventProcessor
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	startBlock    uint64
	batchSize     uint64
	confirmations uint64
	interval      time.Duration

	// next is the first block not yet scanned; zero until loaded from the cursor.
	next   uint64
	loaded bool
}

// Config for Indexer.
type Config struct {
	Source        EventSource
	Processor     EventProcessor
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics
	StartBlock    uint64        // First block scanned when no cursor exists
	BatchSize     uint64        // Blocks per eth_getLogs request
	Confirmations uint64        // Blocks behind head considered final
	Interval      time.Duration // Polling interval once caught up
}

// New creates a new Indexer.
func New(cfg Config) *Indexer {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 2000
	}
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Second
	}

	return &Indexer{
		source:        cfg.Source,
		processor:     cfg.Processor,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		startBlock:    cfg.StartBlock,
		batchSize:     cfg.BatchSize,
		confirmations: cfg.Confirmations,
		interval:      cfg.Interval,
	}
}

// Start runs until ctx is cancelled or an event violates a ledger invariant.
// Transient failures are logged and retried on the next tick.
func (ix *Indexer) Start(ctx context.Context) error {
	ix.logger.Info().
		Uint64("start_block", ix.startBlock).
		Uint64("batch_size", ix.batchSize).
		Uint64("confirmations", ix.confirmations).
		Dur("interval", ix.interval).
		Msg("indexer started")

	ticker := time.NewTicker(ix.interval)
	defer ticker.Stop()

	for {
		if err := ix.drain(ctx); err != nil {
			if domain.IsFatal(err) {
				ix.logger.Error().Err(err).Msg("indexer stopped on invariant violation")
				return err
			}
			if ctx.Err() == nil {
				ix.logger.Error().Err(err).Msg("error indexing batch")
			}
		}

		select {
		case <-ctx.Done():
			ix.logger.Info().Msg("indexer shutting down")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain processes batches until the safe head is reached or a batch fails.
func (ix *Indexer) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		progressed, err := ix.Tick(ctx)
		if err != nil || !progressed {
			return err
		}
	}
}

// Tick scans one batch of confirmed blocks and reports whether it made progress.
func (ix *Indexer) Tick(ctx context.Context) (bool, error) {
	if !ix.loaded {
		if err := ix.loadCursor(ctx); err != nil {
			return false, err
		}
	}

	head, err := ix.source.Head(ctx)
	if err != nil {
		return false, fmt.Errorf("chain head: %w", err)
	}
	if ix.metrics != nil {
		ix.metrics.ChainHead.Set(float64(head))
	}

	if head < ix.confirmations {
		return false, nil
	}
	safe := head - ix.confirmations
	if ix.next > safe {
		return false, nil
	}

	from := ix.next
	to := min(safe, from+ix.batchSize-1)
	batchID := ulid.Make().String()
	start := time.Now()

	log := ix.logger.With().
		Str("batch_id", batchID).
		Uint64("from", from).
		Uint64("to", to).
		Logger()

	events, err := ix.source.Fetch(ctx, from, to)
	if err != nil {
		return false, err
	}

	applied := 0
	for _, event := range events {
		ok, err := ix.processor.Process(ctx, event)
		if err != nil {
			meta := event.Metadata()
			log.Error().
				Err(err).
				Str("event", string(event.Kind())).
				Uint64("block", meta.BlockNumber).
				Uint64("log_index", meta.LogIndex).
				Str("tx_hash", meta.TxHash).
				Msg("failed to apply event")
			return false, err
		}
		if ok {
			applied++
		}
	}

	ix.next = to + 1

	if ix.metrics != nil {
		ix.metrics.LastIndexedBlock.Set(float64(to))
		ix.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}

	log.Info().
		Int("events", len(events)).
		Int("applied", applied).
		Uint64("head", head).
		Msg("batch indexed")

	return true, nil
}

// loadCursor resumes from the block of the last applied event. Events at or
// before the cursor are skipped by the processor, so rescanning it is safe.
func (ix *Indexer) loadCursor(ctx context.Context) error {
	pos, ok, err := ix.processor.Position(ctx)
	if err != nil {
		return fmt.Errorf("load cursor: %w", err)
	}

	ix.next = ix.startBlock
	if ok && pos.BlockNumber > ix.next {
		ix.next = pos.BlockNumber
	}
	ix.loaded = true

	ix.logger.Info().Uint64("block", ix.next).Bool("resumed", ok).Msg("indexer cursor loaded")
	return nil
}

