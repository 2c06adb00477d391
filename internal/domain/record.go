package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordKind discriminates the transaction log variants.
type RecordKind string

const (
	RecordTokensAdded   RecordKind = "TokensAdded"
	RecordTokensRemoved RecordKind = "TokensRemoved"
	RecordTokensPulled  RecordKind = "TokensPulled"
)

// TransactionRecord is the immutable log entry written for every balance
// affecting event. To is only set for TokensRemoved.
type TransactionRecord struct {
	ID          string
	Kind        RecordKind
	Hash        string
	BlockNumber uint64
	Timestamp   int64
	User        string
	Amount      decimal.Decimal
	To          *string
}

// AnomalyRecord documents a removal the contract rejected for insufficient
// balance. It never touches a ledger.
type AnomalyRecord struct {
	ID          string
	Hash        string
	BlockNumber uint64
	Timestamp   int64
	User        string
	To          string
	Amount      decimal.Decimal
}

// RecordID is the collision-free identity of a record produced by the log
// at logIndex within transaction txHash.
func RecordID(txHash string, logIndex uint64) string {
	return CompoundID(strings.ToLower(txHash), strconv.FormatUint(logIndex, 10))
}
