package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// BillingUseCase reduces billing contract events into the ledgers.
//
// Every reducer resolves identities, mutates counters, rolls up the account
// (if any) and then the global ledger, saves the owners and finally writes the
// transaction or anomaly record. Rollup reads post-mutation counters, so the
// order must not change.
type BillingUseCase struct {
	resolver    *IdentityResolver
	rollup      *RollupEngine
	txLog       *TransactionLog
	accountRepo AccountRepository
	globalRepo  GlobalLedgerRepository
}

// NewBillingUseCase creates a new BillingUseCase.
func NewBillingUseCase(
	resolver *IdentityResolver,
	rollup *RollupEngine,
	txLog *TransactionLog,
	accountRepo AccountRepository,
	globalRepo GlobalLedgerRepository,
) *BillingUseCase {
	return &BillingUseCase{
		resolver:    resolver,
		rollup:      rollup,
		txLog:       txLog,
		accountRepo: accountRepo,
		globalRepo:  globalRepo,
	}
}

// Apply dispatches event to its reducer.
func (uc *BillingUseCase) Apply(ctx context.Context, tx Transaction, event domain.Event) error {
	switch e := event.(type) {
	case domain.TokensAdded:
		return uc.TokensAdded(ctx, tx, e)
	case domain.TokensRemoved:
		return uc.TokensRemoved(ctx, tx, e)
	case domain.TokensPulled:
		return uc.TokensPulled(ctx, tx, e)
	case domain.InsufficientBalanceForRemoval:
		return uc.InsufficientBalance(ctx, tx, e)
	case domain.CollectorUpdated:
		return uc.CollectorUpdated(ctx, tx, e)
	case domain.NewOwnership:
		return uc.NewOwnership(ctx, tx, e)
	default:
		return domain.Invariant(fmt.Errorf("%w: %s", domain.ErrUnknownEvent, event.Kind()))
	}
}

// TokensAdded credits the user and the global ledger.
func (uc *BillingUseCase) TokensAdded(ctx context.Context, tx Transaction, e domain.TokensAdded) error {
	account, err := uc.applyBalanceChange(ctx, tx, e.EventMeta, e.User, e.Amount, (*domain.Counters).Credit)
	if err != nil {
		return err
	}

	_, err = uc.txLog.Record(ctx, tx, domain.RecordTokensAdded, e.EventMeta, account.ID, e.Amount, "")
	return err
}

// TokensRemoved debits the sender and the global ledger by an external removal.
func (uc *BillingUseCase) TokensRemoved(ctx context.Context, tx Transaction, e domain.TokensRemoved) error {
	to, err := normalizeAddress(e.To)
	if err != nil {
		return err
	}

	account, err := uc.applyBalanceChange(ctx, tx, e.EventMeta, e.From, e.Amount, (*domain.Counters).DebitExternal)
	if err != nil {
		return err
	}

	_, err = uc.txLog.Record(ctx, tx, domain.RecordTokensRemoved, e.EventMeta, account.ID, e.Amount, to)
	return err
}

// TokensPulled debits the user and the global ledger by a collector pull.
// There is no balance guard: the ledger applies whatever the contract emitted.
func (uc *BillingUseCase) TokensPulled(ctx context.Context, tx Transaction, e domain.TokensPulled) error {
	account, err := uc.applyBalanceChange(ctx, tx, e.EventMeta, e.User, e.Amount, (*domain.Counters).DebitPull)
	if err != nil {
		return err
	}

	_, err = uc.txLog.Record(ctx, tx, domain.RecordTokensPulled, e.EventMeta, account.ID, e.Amount, "")
	return err
}

// InsufficientBalance records a rejected removal without touching any ledger.
func (uc *BillingUseCase) InsufficientBalance(ctx context.Context, tx Transaction, e domain.InsufficientBalanceForRemoval) error {
	if err := domain.ValidateAmount(e.Amount); err != nil {
		return domain.Invariant(err)
	}

	from, err := normalizeAddress(e.From)
	if err != nil {
		return err
	}

	to, err := normalizeAddress(e.To)
	if err != nil {
		return err
	}

	_, err = uc.txLog.RecordAnomaly(ctx, tx, e.EventMeta, from, to, e.Amount)
	return err
}

// CollectorUpdated adds or removes a collector and refreshes the global snapshot.
func (uc *BillingUseCase) CollectorUpdated(ctx context.Context, tx Transaction, e domain.CollectorUpdated) error {
	collector, err := normalizeAddress(e.Collector)
	if err != nil {
		return err
	}

	return uc.applyAdminChange(ctx, tx, e.EventMeta, func(g *domain.GlobalLedger) {
		g.SetCollector(collector, e.Enabled)
	})
}

// NewOwnership replaces the governor and refreshes the global snapshot.
func (uc *BillingUseCase) NewOwnership(ctx context.Context, tx Transaction, e domain.NewOwnership) error {
	governor, err := normalizeAddress(e.To)
	if err != nil {
		return err
	}

	return uc.applyAdminChange(ctx, tx, e.EventMeta, func(g *domain.GlobalLedger) {
		g.SetGovernor(governor)
	})
}

func (uc *BillingUseCase) applyBalanceChange(
	ctx context.Context,
	tx Transaction,
	meta domain.EventMeta,
	user string,
	amount decimal.Decimal,
	op func(*domain.Counters, decimal.Decimal),
) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, domain.Invariant(err)
	}

	account, err := uc.resolver.ResolveAccount(ctx, tx, user)
	if err != nil {
		return nil, err
	}

	global, err := uc.resolver.ResolveGlobal(ctx, tx, meta.Contract)
	if err != nil {
		return nil, err
	}

	op(&account.Counters, amount)
	op(&global.Counters, amount)

	if _, err := uc.rollup.Rollup(ctx, tx, account, meta.Timestamp); err != nil {
		return nil, err
	}

	if _, err := uc.rollup.Rollup(ctx, tx, global, meta.Timestamp); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Save(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.globalRepo.Save(ctx, tx, global); err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *BillingUseCase) applyAdminChange(
	ctx context.Context,
	tx Transaction,
	meta domain.EventMeta,
	mutate func(*domain.GlobalLedger),
) error {
	global, err := uc.resolver.ResolveGlobal(ctx, tx, meta.Contract)
	if err != nil {
		return err
	}

	mutate(global)

	if _, err := uc.rollup.Rollup(ctx, tx, global, meta.Timestamp); err != nil {
		return err
	}

	return uc.globalRepo.Save(ctx, tx, global)
}

func normalizeAddress(address string) (string, error) {
	address = domain.NormalizeAddress(address)
	if err := domain.ValidateIdentifier(address); err != nil {
		return "", domain.Invariant(err)
	}
	return address, nil
}
