package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// maxLineSize bounds a single JSON line.
const maxLineSize = 1 << 20

// ErrMissingField is returned when a line lacks a field its kind requires.
var ErrMissingField = errors.New("missing field")

// Line is the JSON shape of one recorded event. Amounts are decimal strings
// so uint256 values survive the round trip.
type Line struct {
	Kind        domain.EventKind `json:"kind"`
	Contract    string           `json:"contract"`
	TxHash      string           `json:"tx_hash"`
	LogIndex    uint64           `json:"log_index"`
	BlockNumber uint64           `json:"block_number"`
	Timestamp   int64            `json:"timestamp"`

	User      string           `json:"user,omitempty"`
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Collector string           `json:"collector,omitempty"`
	Enabled   bool             `json:"enabled,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
}

// Reader decodes a stream of JSON lines into events. Blank lines and lines
// starting with '#' are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next event, or io.EOF at the end of the stream.
func (r *Reader) Next() (domain.Event, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var l Line
		if err := json.Unmarshal([]byte(text), &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}

		event, err := l.Event()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return event, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ReadAll decodes every remaining event.
func (r *Reader) ReadAll() ([]domain.Event, error) {
	var events []domain.Event
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
}

// Event converts the line into its domain event.
func (l Line) Event() (domain.Event, error) {
	meta := domain.EventMeta{
		Contract:    l.Contract,
		TxHash:      l.TxHash,
		LogIndex:    l.LogIndex,
		BlockNumber: l.BlockNumber,
		Timestamp:   l.Timestamp,
	}
	if meta.TxHash == "" {
		return nil, fmt.Errorf("%w: tx_hash", ErrMissingField)
	}

	switch l.Kind {
	case domain.EventTokensAdded:
		amount, err := l.require(l.Amount, "amount")
		return domain.TokensAdded{EventMeta: meta, User: l.User, Amount: amount}, err
	case domain.EventTokensRemoved:
		amount, err := l.require(l.Amount, "amount")
		return domain.TokensRemoved{EventMeta: meta, From: l.From, To: l.To, Amount: amount}, err
	case domain.EventTokensPulled:
		amount, err := l.require(l.Amount, "amount")
		return domain.TokensPulled{EventMeta: meta, User: l.User, Amount: amount}, err
	case domain.EventInsufficientBalance:
		amount, err := l.require(l.Amount, "amount")
		return domain.InsufficientBalanceForRemoval{EventMeta: meta, From: l.From, To: l.To, Amount: amount}, err
	case domain.EventCollectorUpdated:
		return domain.CollectorUpdated{EventMeta: meta, Collector: l.Collector, Enabled: l.Enabled}, nil
	case domain.EventNewOwnership:
		return domain.NewOwnership{EventMeta: meta, From: l.From, To: l.To}, nil
	case domain.EventTransfer:
		value, err := l.require(l.Value, "value")
		return domain.Transfer{EventMeta: meta, From: l.From, To: l.To, Value: value}, err
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, l.Kind)
	}
}

func (l Line) require(d *decimal.Decimal, name string) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return *d, nil
}
