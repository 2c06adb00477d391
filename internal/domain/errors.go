package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrGlobalLedgerNotFound = errors.New("global ledger not found")
	ErrSnapshotNotFound     = errors.New("daily snapshot not found")
	ErrCursorNotFound       = errors.New("cursor not found")

	// Input errors
	ErrInvalidAmount     = errors.New("amount must be a non-negative integer")
	ErrInvalidAddress    = errors.New("invalid account identifier")
	ErrNegativeTimestamp = errors.New("timestamp must not be negative")
	ErrInvalidCalendar   = errors.New("day length must be positive")
	ErrUnknownEvent      = errors.New("unknown event kind")

	// ErrInconsistentLedger is returned when account totals do not sum to the global ledger.
	ErrInconsistentLedger = errors.New("ledger conservation check failed")

	// ErrInvariant marks faults that must halt event processing.
	ErrInvariant = errors.New("ledger invariant violated")
)

// Invariant wraps err so that errors.Is(err, ErrInvariant) holds.
func Invariant(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvariant) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvariant, err)
}

// IsFatal reports whether err must stop the event stream instead of being retried.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvariant)
}
