package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/metrics"
	"github.com/iho/billingledger/internal/usecase"
)

// DefaultRunTimeout bounds a single reconciliation run.
const DefaultRunTimeout = 2 * time.Minute

// ConservationChecker is implemented by usecase.ReconciliationUseCase.
type ConservationChecker interface {
	CheckConservation(ctx context.Context) (*usecase.ConservationReport, error)
}

// Scheduler runs the periodic conservation check.
type Scheduler struct {
	cron       *cron.Cron
	checker    ConservationChecker
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	spec       string
	runTimeout time.Duration
}

// New creates a Scheduler running checker on spec, a cron expression with a
// leading seconds field.
func New(ctx context.Context, spec string, checker ConservationChecker, logger zerolog.Logger, m *metrics.Metrics) (*Scheduler, error) {
	cl := cronLogger{log: logger}
	s := &Scheduler{
		// Seconds field, optional
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cl)), cron.WithLogger(cl)),
		checker:    checker,
		logger:     logger,
		metrics:    m,
		spec:       spec,
		runTimeout: DefaultRunTimeout,
	}

	_, err := s.cron.AddFunc(spec, func() {
		rctx, cancel := context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
		_ = s.RunOnce(rctx)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("reconciliation scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce checks conservation and publishes the outcome as metrics.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.ReconcileRuns.Inc()
	}

	report, err := s.checker.CheckConservation(ctx)
	if report != nil && s.metrics != nil {
		drift, _ := report.Drift.Balance.Float64()
		s.metrics.ConservationDrift.Set(drift)
	}

	switch {
	case errors.Is(err, domain.ErrInconsistentLedger):
		if s.metrics != nil {
			s.metrics.ReconcileFailures.Inc()
		}
		s.logger.Error().
			Err(err).
			Int64("accounts", report.Accounts).
			Str("drift_balance", report.Drift.Balance.String()).
			Int("discrepancies", len(report.Discrepancies)).
			Msg("ledger conservation violated")
	case err != nil:
		if s.metrics != nil {
			s.metrics.ReconcileFailures.Inc()
		}
		s.logger.Error().Err(err).Msg("reconciliation failed")
	default:
		s.logger.Info().
			Int64("accounts", report.Accounts).
			Str("balance", report.Global.Balance.String()).
			Msg("ledger conservation holds")
	}

	return err
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
