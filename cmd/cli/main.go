package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/billingledger/internal/adapter/chain"
	"github.com/iho/billingledger/internal/adapter/replay"
	"github.com/iho/billingledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/billingledger/internal/adapter/repository/postgres"
	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/infrastructure/config"
	"github.com/iho/billingledger/internal/infrastructure/logger"
	"github.com/iho/billingledger/internal/infrastructure/postgres"
	"github.com/iho/billingledger/internal/usecase"
)

var (
	databaseURL string
	timeout     time.Duration
	logLevel    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "billingledger-cli",
		Short:         "Billing ledger CLI tool",
		Long:          `A command line interface for migrating, replaying and reconciling the billing ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Command timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newMigrateCmd(), newReplayCmd(), newReconcileCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	var migrationsPath string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (defaults to MIGRATIONS_PATH)")

	migrator := func() (*postgres.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path := migrationsPath
		if path == "" {
			path = cfg.MigrationsPath
		}
		return postgres.NewMigrator(resolveDatabaseURL(cfg), path, cliLogger(os.Stderr)), nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			if err := m.Up(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			if err := m.Down(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", version, dirty)
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func newReplayCmd() *cobra.Command {
	var (
		file     string
		governor string
		rpcURL   string
		usePG    bool
	)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply a JSON Lines event file to the ledger",
		Long: `Replay reads decoded billing events, one JSON object per line, and applies
them in order. Without --postgres the ledger is held in memory and only the
resulting totals are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			events, err := replay.NewReader(f).ReadAll()
			if err != nil {
				return err
			}

			var governors usecase.GovernorSource = staticGovernor(domain.NormalizeAddress(governor))
			if rpcURL != "" {
				client, err := chain.Dial(ctx, rpcURL)
				if err != nil {
					return err
				}
				defer client.Close()
				governors = chain.NewGovernorReader(client)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var l *ledger
			if usePG {
				pool, err := postgres.NewPool(ctx, resolveDatabaseURL(cfg), cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
				if err != nil {
					return err
				}
				defer pool.Close()
				l = newPostgresLedger(pool, governors, cfg.Calendar(), cliLogger(cmd.ErrOrStderr()))
			} else {
				l = newMemoryLedger(governors, cfg.Calendar())
			}

			summary, err := l.replay(ctx, events)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}

	replayCmd.Flags().StringVarP(&file, "file", "f", "", "JSON Lines event file")
	replayCmd.Flags().StringVar(&governor, "governor", "", "Governor recorded when the global ledger bootstraps")
	replayCmd.Flags().StringVar(&rpcURL, "rpc", "", "Read the governor from this RPC endpoint instead of --governor")
	replayCmd.Flags().BoolVar(&usePG, "postgres", false, "Apply events to PostgreSQL instead of memory")
	_ = replayCmd.MarkFlagRequired("file")

	return replayCmd
}

func newReconcileCmd() *cobra.Command {
	var (
		asJSON    bool
		accountID string
	)

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check that account totals match the global ledger",
		Long: `Check that the sum of every account matches the global ledger.
With --account, check a single account against its lifetime totals and its
current daily snapshot instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(ctx, resolveDatabaseURL(cfg), cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			reconciler := usecase.NewReconciliationUseCase(
				postgresRepo.NewAccountRepository(pool),
				postgresRepo.NewSnapshotRepository(pool),
				postgresRepo.NewLedgerRepository(pool),
			)
			if accountID != "" {
				return runReconcileAccount(ctx, cmd.OutOrStdout(), reconciler, accountID, asJSON)
			}
			return runReconcile(ctx, cmd.OutOrStdout(), reconciler, asJSON)
		},
	}

	reconcileCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	reconcileCmd.Flags().StringVar(&accountID, "account", "", "Check a single account")
	return reconcileCmd
}

type conservationChecker interface {
	CheckConservation(ctx context.Context) (*usecase.ConservationReport, error)
}

type accountReconciler interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

// runReconcileAccount prints one account's check and fails when it does not reconcile.
func runReconcileAccount(ctx context.Context, out io.Writer, reconciler accountReconciler, accountID string, asJSON bool) error {
	result, err := reconciler.ReconcileAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if asJSON {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else {
		snapshot := result.SnapshotID
		if snapshot == "" {
			snapshot = "none"
		}
		fmt.Fprintf(out, "Account: %s\n", result.AccountID)
		fmt.Fprintf(out, "Balance: recorded=%s calculated=%s\n", result.RecordedBalance, result.CalculatedBalance)
		fmt.Fprintf(out, "Snapshot: %s matches=%t\n", snapshot, result.SnapshotMatches)
	}

	if !result.IsReconciled {
		return fmt.Errorf("%w: account %s", domain.ErrInconsistentLedger, result.AccountID)
	}
	return nil
}

// runReconcile prints the report and returns the inconsistency, if any.
func runReconcile(ctx context.Context, out io.Writer, checker conservationChecker, asJSON bool) error {
	report, err := checker.CheckConservation(ctx)
	if report == nil {
		return err
	}

	if asJSON {
		if perr := printJSON(out, report); perr != nil {
			return perr
		}
		return err
	}

	status := "PASSED"
	if !report.Consistent {
		status = "FAILED"
	}
	fmt.Fprintf(out, "Conservation check %s\n", status)
	fmt.Fprintf(out, "Accounts: %d\n", report.Accounts)
	printCounters(out, "Global", report.Global)
	printCounters(out, "Accounts total", report.AccountTotals)
	printCounters(out, "Drift", report.Drift)
	for _, d := range report.Discrepancies {
		fmt.Fprintf(out, "Discrepancy: account=%s recorded=%s calculated=%s\n",
			d.AccountID, d.RecordedBalance, d.CalculatedBalance)
	}
	return err
}

func printCounters(out io.Writer, label string, c domain.Counters) {
	fmt.Fprintf(out, "%s: balance=%s added=%s removed=%s pulled=%s\n",
		label, c.Balance, c.TokensAdded, c.TokensRemoved, c.TokensPulled)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type replaySummary struct {
	Events     int             `json:"events"`
	Applied    int             `json:"applied"`
	Skipped    int             `json:"skipped"`
	Governor   string          `json:"governor,omitempty"`
	Collectors []string        `json:"collectors,omitempty"`
	Counters   domain.Counters `json:"counters"`
}

func printSummary(out io.Writer, s *replaySummary) error {
	return printJSON(out, s)
}

func resolveDatabaseURL(cfg *config.Config) string {
	if databaseURL != "" {
		return databaseURL
	}
	return cfg.DatabaseURL
}

func cliLogger(out io.Writer) zerolog.Logger {
	return logger.New(logger.Config{Level: logLevel, Format: "console", Output: out})
}

type staticGovernor string

func (g staticGovernor) Governor(context.Context, string) (string, error) {
	if g == "" {
		return "", errors.New("no governor configured, pass --governor or --rpc")
	}
	return string(g), nil
}

// ledger is the processor plus the read side needed to summarize a replay.
type ledger struct {
	processor *usecase.Processor
	globals   usecase.GlobalLedgerRepository
}

func newMemoryLedger(governors usecase.GovernorSource, calendar domain.Calendar) *ledger {
	store := memory.NewStore()
	accounts := memory.NewAccountRepository(store)
	globals := memory.NewGlobalLedgerRepository(store)

	return &ledger{
		processor: newProcessor(
			memory.NewTxManager(store),
			memory.NewCursorRepository(store),
			memory.Retrier{},
			accounts,
			globals,
			memory.NewSnapshotRepository(store),
			memory.NewRecordRepository(store),
			governors,
			calendar,
		),
		globals: globals,
	}
}

func newPostgresLedger(pool *pgxpool.Pool, governors usecase.GovernorSource, calendar domain.Calendar, log zerolog.Logger) *ledger {
	accounts := postgresRepo.NewAccountRepository(pool)
	globals := postgresRepo.NewGlobalLedgerRepository(pool)

	return &ledger{
		processor: newProcessor(
			postgresRepo.NewTxManager(pool),
			postgresRepo.NewCursorRepository(),
			postgresRepo.NewRetrier(log, nil),
			accounts,
			globals,
			postgresRepo.NewSnapshotRepository(pool),
			postgresRepo.NewRecordRepository(),
			governors,
			calendar,
		),
		globals: globals,
	}
}

func newProcessor(
	txManager usecase.TransactionManager,
	cursors usecase.CursorRepository,
	retrier usecase.Retrier,
	accounts usecase.AccountRepository,
	globals usecase.GlobalLedgerRepository,
	snapshots usecase.SnapshotRepository,
	records usecase.RecordRepository,
	governors usecase.GovernorSource,
	calendar domain.Calendar,
) *usecase.Processor {
	resolver := usecase.NewIdentityResolver(accounts, globals, governors)
	billing := usecase.NewBillingUseCase(
		resolver,
		usecase.NewRollupEngine(snapshots, calendar, nil),
		usecase.NewTransactionLog(records, nil),
		accounts,
		globals,
	)

	return usecase.NewProcessor(
		txManager,
		cursors,
		usecase.NewLedgerRouter(billing, usecase.NewTokenUseCase(resolver, accounts)),
		retrier,
		usecase.BillingCursorID,
		nil,
	)
}

func (l *ledger) replay(ctx context.Context, events []domain.Event) (*replaySummary, error) {
	summary := &replaySummary{Events: len(events)}

	for _, e := range events {
		applied, err := l.processor.Process(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("%s at block %d log %d: %w", e.Kind(), e.Metadata().BlockNumber, e.Metadata().LogIndex, err)
		}
		if applied {
			summary.Applied++
		} else {
			summary.Skipped++
		}
	}

	global, err := l.globals.Get(ctx)
	switch {
	case err == nil:
		summary.Governor = global.Governor
		summary.Collectors = global.Collectors
		summary.Counters = global.Counters
	case !errors.Is(err, domain.ErrGlobalLedgerNotFound):
		return nil, err
	}

	return summary, nil
}
