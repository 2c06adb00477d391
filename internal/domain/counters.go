package domain

import "github.com/shopspring/decimal"

// Counters are the running totals kept by every ledger owner (account or global).
// Balance may go negative: the ledger records, it does not validate.
type Counters struct {
	Balance       decimal.Decimal
	TokensAdded   decimal.Decimal
	TokensRemoved decimal.Decimal
	TokensPulled  decimal.Decimal
}

// Credit increases the balance and the lifetime added total.
func (c *Counters) Credit(amount decimal.Decimal) {
	c.Balance = c.Balance.Add(amount)
	c.TokensAdded = c.TokensAdded.Add(amount)
}

// DebitExternal decreases the balance and increases the lifetime removed total.
func (c *Counters) DebitExternal(amount decimal.Decimal) {
	c.Balance = c.Balance.Sub(amount)
	c.TokensRemoved = c.TokensRemoved.Add(amount)
}

// DebitPull decreases the balance and increases the lifetime pulled total.
func (c *Counters) DebitPull(amount decimal.Decimal) {
	c.Balance = c.Balance.Sub(amount)
	c.TokensPulled = c.TokensPulled.Add(amount)
}

// Add returns the field-wise sum.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Balance:       c.Balance.Add(o.Balance),
		TokensAdded:   c.TokensAdded.Add(o.TokensAdded),
		TokensRemoved: c.TokensRemoved.Add(o.TokensRemoved),
		TokensPulled:  c.TokensPulled.Add(o.TokensPulled),
	}
}

// Sub returns the field-wise difference c - o.
func (c Counters) Sub(o Counters) Counters {
	return Counters{
		Balance:       c.Balance.Sub(o.Balance),
		TokensAdded:   c.TokensAdded.Sub(o.TokensAdded),
		TokensRemoved: c.TokensRemoved.Sub(o.TokensRemoved),
		TokensPulled:  c.TokensPulled.Sub(o.TokensPulled),
	}
}

// Equal compares numerically, ignoring decimal exponent differences.
func (c Counters) Equal(o Counters) bool {
	return c.Balance.Equal(o.Balance) &&
		c.TokensAdded.Equal(o.TokensAdded) &&
		c.TokensRemoved.Equal(o.TokensRemoved) &&
		c.TokensPulled.Equal(o.TokensPulled)
}

// Net is added - removed - pulled, which must always equal Balance.
func (c Counters) Net() decimal.Decimal {
	return c.TokensAdded.Sub(c.TokensRemoved).Sub(c.TokensPulled)
}
