package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// ReconciliationUseCase verifies the ledger's aggregate invariants.
type ReconciliationUseCase struct {
	accountRepo  AccountRepository
	snapshotRepo SnapshotRepository
	ledgerRepo   LedgerRepository
	now          func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	snapshotRepo SnapshotRepository,
	ledgerRepo LedgerRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:  accountRepo,
		snapshotRepo: snapshotRepo,
		ledgerRepo:   ledgerRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult is the self-consistency check of one account.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	// SnapshotID and SnapshotMatches are only filled by ReconcileAccount.
	// SnapshotID is empty when the account has no snapshot yet.
	SnapshotID      string
	SnapshotMatches bool
	IsReconciled    bool
}

// ConservationReport compares the sum of all accounts against the global ledger.
// Drift is Global minus AccountTotals.
type ConservationReport struct {
	Accounts      int64
	AccountTotals domain.Counters
	Global        domain.Counters
	Drift         domain.Counters
	Discrepancies []*ReconciliationResult
	Consistent    bool
	CheckedAt     time.Time
}

// ReconcileAccount checks that the account balance equals added - removed - pulled
// and that its current daily snapshot carries the live counters. Every balance
// change rolls the account up, so the two only differ on a corrupted store.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, domain.NormalizeAddress(accountID))
	if err != nil {
		return nil, err
	}

	result := reconcile(account)

	current := account.Links().CurrentDailyID
	if current == nil {
		result.SnapshotMatches = account.Counters.Equal(domain.Counters{})
	} else {
		result.SnapshotID = *current
		snapshot, err := uc.snapshotRepo.GetByID(ctx, nil, *current)
		switch {
		case err == nil:
			result.SnapshotMatches = snapshot.Counters.Equal(account.Counters)
		case !errors.Is(err, domain.ErrSnapshotNotFound):
			return nil, fmt.Errorf("failed to load snapshot %s: %w", *current, err)
		}
	}

	result.IsReconciled = result.IsReconciled && result.SnapshotMatches
	return result, nil
}

// ReconcileAllAccounts returns the accounts whose balance disagrees with their lifetime totals.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	limit, offset := ReconcilePageSize, 0

	var discrepancies []*ReconciliationResult
	for {
		accounts, err := uc.accountRepo.List(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts at offset %d: %w", offset, err)
		}

		for _, account := range accounts {
			if result := reconcile(account); !result.IsReconciled {
				discrepancies = append(discrepancies, result)
			}
		}

		if len(accounts) < limit {
			return discrepancies, nil
		}
		offset += limit
	}
}

// CheckConservation sums every account and compares the totals with the
// global ledger. A mismatch returns the report together with an error
// wrapping domain.ErrInconsistentLedger.
func (uc *ReconciliationUseCase) CheckConservation(ctx context.Context) (*ConservationReport, error) {
	ledger, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	totals, global := ledger.Accounts, ledger.Global

	discrepancies, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConservationReport{
		Accounts:      ledger.AccountCount,
		AccountTotals: totals,
		Global:        global,
		Drift:         global.Sub(totals),
		Discrepancies: discrepancies,
		CheckedAt:     uc.now(),
	}
	report.Consistent = totals.Equal(global) &&
		global.Net().Equal(global.Balance) &&
		len(discrepancies) == 0

	if !report.Consistent {
		return report, fmt.Errorf(
			"%w: global balance=%s accounts balance=%s drift=%s discrepancies=%d",
			domain.ErrInconsistentLedger,
			global.Balance.String(),
			totals.Balance.String(),
			report.Drift.Balance.String(),
			len(discrepancies),
		)
	}

	return report, nil
}

func reconcile(account *domain.Account) *ReconciliationResult {
	calculated := account.Net()
	return &ReconciliationResult{
		AccountID:         account.ID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance.Sub(calculated),
		IsReconciled:      account.Balance.Equal(calculated),
	}
}
