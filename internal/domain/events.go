package domain

import "github.com/shopspring/decimal"

// EventKind names an inbound contract event.
type EventKind string

// Event kinds
const (
	EventTokensAdded         EventKind = "TokensAdded"
	EventTokensRemoved       EventKind = "TokensRemoved"
	EventTokensPulled        EventKind = "TokensPulled"
	EventInsufficientBalance EventKind = "InsufficientBalanceForRemoval"
	EventCollectorUpdated    EventKind = "CollectorUpdated"
	EventNewOwnership        EventKind = "NewOwnership"
	EventTransfer            EventKind = "Transfer"
)

// Event is one decoded contract log.
type Event interface {
	Kind() EventKind
	Metadata() EventMeta
}

// EventMeta is the envelope every event carries.
type EventMeta struct {
	Contract    string
	TxHash      string
	LogIndex    uint64
	BlockNumber uint64
	Timestamp   int64
}

// Metadata returns the envelope itself; embedding types inherit it.
func (m EventMeta) Metadata() EventMeta { return m }

// Position is where the event sits in the chain's total order.
func (m EventMeta) Position() Position {
	return Position{BlockNumber: m.BlockNumber, LogIndex: m.LogIndex}
}

// RecordID is the identity of the record derived from this event.
func (m EventMeta) RecordID() string {
	return RecordID(m.TxHash, m.LogIndex)
}

// TokensAdded credits User's prepaid balance.
type TokensAdded struct {
	EventMeta
	User   string
	Amount decimal.Decimal
}

// TokensRemoved debits From's balance and sends the tokens to To.
type TokensRemoved struct {
	EventMeta
	From   string
	To     string
	Amount decimal.Decimal
}

// TokensPulled debits User's balance by a collector.
type TokensPulled struct {
	EventMeta
	User   string
	Amount decimal.Decimal
}

// InsufficientBalanceForRemoval is a removal the contract refused.
type InsufficientBalanceForRemoval struct {
	EventMeta
	From   string
	To     string
	Amount decimal.Decimal
}

// CollectorUpdated authorizes or revokes a collector.
type CollectorUpdated struct {
	EventMeta
	Collector string
	Enabled   bool
}

// NewOwnership transfers governance of the billing contract.
type NewOwnership struct {
	EventMeta
	From string
	To   string
}

// Transfer moves tokens on the token contract.
type Transfer struct {
	EventMeta
	From  string
	To    string
	Value decimal.Decimal
}

func (TokensAdded) Kind() EventKind                   { return EventTokensAdded }
func (TokensRemoved) Kind() EventKind                 { return EventTokensRemoved }
func (TokensPulled) Kind() EventKind                  { return EventTokensPulled }
func (InsufficientBalanceForRemoval) Kind() EventKind { return EventInsufficientBalance }
func (CollectorUpdated) Kind() EventKind              { return EventCollectorUpdated }
func (NewOwnership) Kind() EventKind                  { return EventNewOwnership }
func (Transfer) Kind() EventKind                      { return EventTransfer }
