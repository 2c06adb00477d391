package testutil

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// Addresses used across tests.
const (
	BillingContract = "0x00000000000000000000000000000000000000b1"
	TokenContract   = "0x00000000000000000000000000000000000000c1"
	Governor        = "0x00000000000000000000000000000000000000aa"
	User1           = "0x0101010101010101010101010101010101010101"
	User2           = "0x0202020202020202020202020202020202020202"
	CollectorOld    = "0x1111111111111111111111111111111111111112"
	CollectorNew    = "0x1111111111111111111111111111111111111113"
)

// LaunchTimestamp is the first second of day 0 of the default calendar.
const LaunchTimestamp int64 = 1608163200

// EventFactory builds events with strictly increasing positions.
// Every event is placed in its own block and transaction.
type EventFactory struct {
	Timestamp int64
	block     uint64
}

// NewEventFactory starts producing events at timestamp.
func NewEventFactory(timestamp int64) *EventFactory {
	return &EventFactory{Timestamp: timestamp, block: 100}
}

// AdvanceDays moves the clock n calendar days forward.
func (f *EventFactory) AdvanceDays(n int) {
	f.Timestamp += int64(n) * domain.SecondsPerDay
}

// AdvanceSeconds moves the clock s seconds forward.
func (f *EventFactory) AdvanceSeconds(s int64) {
	f.Timestamp += s
}

// Meta returns the envelope of the next event emitted by contract.
func (f *EventFactory) Meta(contract string) domain.EventMeta {
	f.block++
	return domain.EventMeta{
		Contract:    contract,
		TxHash:      fmt.Sprintf("0x%064x", f.block),
		LogIndex:    0,
		BlockNumber: f.block,
		Timestamp:   f.Timestamp,
	}
}

func (f *EventFactory) TokensAdded(user string, amount int64) domain.TokensAdded {
	return domain.TokensAdded{EventMeta: f.Meta(BillingContract), User: user, Amount: decimal.NewFromInt(amount)}
}

func (f *EventFactory) TokensRemoved(from, to string, amount int64) domain.TokensRemoved {
	return domain.TokensRemoved{EventMeta: f.Meta(BillingContract), From: from, To: to, Amount: decimal.NewFromInt(amount)}
}

func (f *EventFactory) TokensPulled(user string, amount int64) domain.TokensPulled {
	return domain.TokensPulled{EventMeta: f.Meta(BillingContract), User: user, Amount: decimal.NewFromInt(amount)}
}

func (f *EventFactory) InsufficientBalance(from, to string, amount int64) domain.InsufficientBalanceForRemoval {
	return domain.InsufficientBalanceForRemoval{EventMeta: f.Meta(BillingContract), From: from, To: to, Amount: decimal.NewFromInt(amount)}
}

func (f *EventFactory) CollectorUpdated(collector string, enabled bool) domain.CollectorUpdated {
	return domain.CollectorUpdated{EventMeta: f.Meta(BillingContract), Collector: collector, Enabled: enabled}
}

func (f *EventFactory) NewOwnership(from, to string) domain.NewOwnership {
	return domain.NewOwnership{EventMeta: f.Meta(BillingContract), From: from, To: to}
}

func (f *EventFactory) Transfer(from, to string, value int64) domain.Transfer {
	return domain.Transfer{EventMeta: f.Meta(TokenContract), From: from, To: to, Value: decimal.NewFromInt(value)}
}
