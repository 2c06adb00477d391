package usecase

import (
	"context"
	"fmt"

	"github.com/iho/billingledger/internal/domain"
)

// TokenUseCase tracks token holdings from token contract transfers.
// It only touches Account.TokenBalance: no rollup, no record.
type TokenUseCase struct {
	resolver    *IdentityResolver
	accountRepo AccountRepository
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(resolver *IdentityResolver, accountRepo AccountRepository) *TokenUseCase {
	return &TokenUseCase{resolver: resolver, accountRepo: accountRepo}
}

// Apply reduces a token Transfer event.
func (uc *TokenUseCase) Apply(ctx context.Context, tx Transaction, event domain.Event) error {
	e, ok := event.(domain.Transfer)
	if !ok {
		return domain.Invariant(fmt.Errorf("%w: %s", domain.ErrUnknownEvent, event.Kind()))
	}

	return uc.Transfer(ctx, tx, e)
}

// Transfer debits the sender and credits the receiver. The zero address is
// the mint source and the burn sink and never gets an account.
func (uc *TokenUseCase) Transfer(ctx context.Context, tx Transaction, e domain.Transfer) error {
	from := domain.NormalizeAddress(e.From)
	to := domain.NormalizeAddress(e.To)
	if from == to {
		return nil
	}

	if err := domain.ValidateAmount(e.Value); err != nil {
		return domain.Invariant(err)
	}

	if from != domain.ZeroAddress {
		sender, err := uc.resolver.ResolveAccount(ctx, tx, from)
		if err != nil {
			return err
		}

		sender.TokenBalance = sender.ApplyTokenDebit(e.Value)
		if err := uc.accountRepo.Save(ctx, tx, sender); err != nil {
			return err
		}
	}

	if to != domain.ZeroAddress {
		receiver, err := uc.resolver.ResolveAccount(ctx, tx, to)
		if err != nil {
			return err
		}

		receiver.TokenBalance = receiver.ApplyTokenCredit(e.Value)
		if err := uc.accountRepo.Save(ctx, tx, receiver); err != nil {
			return err
		}
	}

	return nil
}
