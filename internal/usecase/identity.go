package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/billingledger/internal/domain"
)

// IdentityResolver maps external identifiers onto ledger records.
type IdentityResolver struct {
	accountRepo AccountRepository
	globalRepo  GlobalLedgerRepository
	governors   GovernorSource
}

// NewIdentityResolver creates a new IdentityResolver.
func NewIdentityResolver(
	accountRepo AccountRepository,
	globalRepo GlobalLedgerRepository,
	governors GovernorSource,
) *IdentityResolver {
	return &IdentityResolver{
		accountRepo: accountRepo,
		globalRepo:  globalRepo,
		governors:   governors,
	}
}

// ResolveAccount returns the account for id, or a zeroed one with no snapshot
// links when id was never seen. New accounts are persisted by the caller.
func (r *IdentityResolver) ResolveAccount(ctx context.Context, tx Transaction, id string) (*domain.Account, error) {
	id = domain.NormalizeAddress(id)
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, domain.Invariant(err)
	}

	account, err := r.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.NewAccount(id), nil
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// ResolveGlobal returns the global ledger, bootstrapping it on first use with
// the governor currently set on contract.
func (r *IdentityResolver) ResolveGlobal(ctx context.Context, tx Transaction, contract string) (*domain.GlobalLedger, error) {
	ledger, err := r.globalRepo.GetForUpdate(ctx, tx)
	if err == nil {
		return ledger, nil
	}
	if !errors.Is(err, domain.ErrGlobalLedgerNotFound) {
		return nil, err
	}

	governor, err := r.governors.Governor(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to read governor of %s: %w", contract, err)
	}

	return domain.NewGlobalLedger(domain.NormalizeAddress(governor)), nil
}
