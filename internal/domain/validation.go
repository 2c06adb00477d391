package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ZeroAddress is the mint source and burn sink of token transfers.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var addressRegex = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeAddress lower-cases a hex address the way identifiers are stored.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidateAddress checks id is a normalized 20-byte hex address.
func ValidateAddress(id string) error {
	if !addressRegex.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, id)
	}
	return nil
}

// ValidateIdentifier checks a normalized party identifier is non-empty.
// Ledger ids are usually addresses, but any opaque id is accepted.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	return nil
}

// ValidateAmount checks amount is a non-negative integer token amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if !amount.IsInteger() {
		return fmt.Errorf("%w: got fractional %s", ErrInvalidAmount, amount)
	}
	return nil
}
