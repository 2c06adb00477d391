package domain

import "github.com/shopspring/decimal"

// Account is the running-balance record of one external account (a user address).
type Account struct {
	ID string
	Counters
	// TokenBalance tracks the account's token holdings from Transfer events.
	// It is independent of the billing counters.
	TokenBalance decimal.Decimal
	DailyLinks
}

// NewAccount returns a zero-valued account with no snapshot links.
func NewAccount(id string) *Account {
	return &Account{ID: id}
}

func (a *Account) SnapshotScope() SnapshotScope { return ScopeAccount }
func (a *Account) OwnerID() string              { return a.ID }
func (a *Account) Totals() Counters             { return a.Counters }
func (a *Account) Links() *DailyLinks           { return &a.DailyLinks }

// ApplyTokenCredit returns the token balance after receiving amount.
func (a *Account) ApplyTokenCredit(amount decimal.Decimal) decimal.Decimal {
	return a.TokenBalance.Add(amount)
}

// ApplyTokenDebit returns the token balance after sending amount.
func (a *Account) ApplyTokenDebit(amount decimal.Decimal) decimal.Decimal {
	return a.TokenBalance.Sub(amount)
}
