package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
	"github.com/iho/billingledger/internal/usecase"
)

// SourceConfig tunes RPC retries and the block timestamp cache.
type SourceConfig struct {
	CacheTTL       time.Duration
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// LogSource fetches and decodes contract logs in chain order.
type LogSource struct {
	client  Client
	decoder *LogDecoder
	cache   usecase.Cache
	cfg     SourceConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLogSource creates a LogSource. cache and m may be nil.
func NewLogSource(client Client, decoder *LogDecoder, cache usecase.Cache, cfg SourceConfig, logger zerolog.Logger, m *metrics.Metrics) *LogSource {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 10 * time.Second
	}

	return &LogSource{
		client:  client,
		decoder: decoder,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Head returns the latest block number known to the node.
func (s *LogSource) Head(ctx context.Context) (uint64, error) {
	var head uint64
	err := s.call(ctx, "eth_blockNumber", func() error {
		var err error
		head, err = s.client.BlockNumber(ctx)
		return err
	})
	return head, err
}

// Fetch returns the decoded events of blocks [from, to] ordered by block
// then log index. Removed and unrecognized logs are dropped.
func (s *LogSource) Fetch(ctx context.Context, from, to uint64) ([]domain.Event, error) {
	if from > to {
		return nil, nil
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: s.decoder.Addresses(),
	}

	var logs []types.Log
	err := s.call(ctx, "eth_getLogs", func() error {
		var err error
		logs, err = s.client.FilterLogs(ctx, query)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch logs %d-%d: %w", from, to, err)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	times := make(map[uint64]int64)
	events := make([]domain.Event, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}

		ts, ok := times[l.BlockNumber]
		if !ok {
			ts, err = s.blockTime(ctx, l.BlockNumber)
			if err != nil {
				return nil, err
			}
			times[l.BlockNumber] = ts
		}

		event, err := s.decoder.Decode(l, ts)
		if errors.Is(err, ErrUnknownLog) {
			s.logger.Debug().
				Uint64("block", l.BlockNumber).
				Uint("log_index", l.Index).
				Str("tx_hash", l.TxHash.Hex()).
				Msg("skipping unrecognized log")
			continue
		}
		if err != nil {
			return nil, domain.Invariant(fmt.Errorf("decode log %s/%d: %w", l.TxHash.Hex(), l.Index, err))
		}
		events = append(events, event)
	}

	if s.metrics != nil {
		s.metrics.LogsFetched.Add(float64(len(events)))
	}

	return events, nil
}

// blockTime returns the timestamp of block number, consulting the cache first.
func (s *LogSource) blockTime(ctx context.Context, number uint64) (int64, error) {
	key := strconv.FormatUint(number, 10)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			if ts, perr := strconv.ParseInt(string(cached), 10, 64); perr == nil {
				return ts, nil
			}
		case !errors.Is(err, usecase.ErrCacheMiss):
			s.logger.Warn().Err(err).Uint64("block", number).Msg("block time cache unavailable")
		}
	}

	var header *types.Header
	err := s.call(ctx, "eth_getBlockByNumber", func() error {
		var err error
		header, err = s.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("header %d: %w", number, err)
	}

	ts := int64(header.Time)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(strconv.FormatInt(ts, 10)), s.cfg.CacheTTL); err != nil {
			s.logger.Warn().Err(err).Uint64("block", number).Msg("failed to cache block time")
		}
	}

	return ts, nil
}

// call runs one RPC with exponential backoff and records its outcome.
func (s *LogSource) call(ctx context.Context, method string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff

	return backoff.RetryNotify(func() error {
		start := time.Now()
		err := fn()
		s.observe(method, start, err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxRetries), ctx), func(err error, wait time.Duration) {
		s.logger.Warn().Err(err).Str("method", method).Dur("wait", wait).Msg("rpc call failed, retrying")
	})
}

func (s *LogSource) observe(method string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.RPCRequests.WithLabelValues(method, status).Inc()
	s.metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
