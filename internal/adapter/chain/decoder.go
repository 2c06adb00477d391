package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/iho/billingledger/internal/domain"
)

// ErrUnknownLog is returned for logs that are not one of the indexed events.
var ErrUnknownLog = errors.New("unrecognized log")

// LogDecoder turns raw contract logs into domain events.
type LogDecoder struct {
	abi     abi.ABI
	billing common.Address
	token   common.Address
}

// NewLogDecoder decodes billing events emitted by billing and Transfer events
// emitted by token. An empty token address disables Transfer decoding.
func NewLogDecoder(billing, token string) *LogDecoder {
	d := &LogDecoder{
		abi:     ParsedABI(),
		billing: common.HexToAddress(billing),
	}
	if token != "" {
		d.token = common.HexToAddress(token)
	}
	return d
}

// Addresses lists the contracts whose logs the decoder accepts.
func (d *LogDecoder) Addresses() []common.Address {
	addrs := []common.Address{d.billing}
	if d.token != (common.Address{}) {
		addrs = append(addrs, d.token)
	}
	return addrs
}

// Decode converts log into an event stamped with the block timestamp.
func (d *LogDecoder) Decode(log types.Log, timestamp int64) (domain.Event, error) {
	if len(log.Topics) == 0 {
		return nil, ErrUnknownLog
	}

	ev, err := d.abi.EventByID(log.Topics[0])
	if err != nil {
		return nil, ErrUnknownLog
	}

	isTransfer := ev.Name == string(domain.EventTransfer)
	switch {
	case isTransfer && (d.token == (common.Address{}) || log.Address != d.token):
		return nil, ErrUnknownLog
	case !isTransfer && log.Address != d.billing:
		return nil, ErrUnknownLog
	}

	fields := make(map[string]interface{})
	if len(log.Data) > 0 {
		if err := d.abi.UnpackIntoMap(fields, ev.Name, log.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data: %w", ev.Name, err)
		}
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed(ev.Inputs), log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("unpack %s topics: %w", ev.Name, err)
	}

	meta := domain.EventMeta{
		Contract:    lowerHex(log.Address),
		TxHash:      log.TxHash.Hex(),
		LogIndex:    uint64(log.Index),
		BlockNumber: log.BlockNumber,
		Timestamp:   timestamp,
	}

	f := fieldReader{event: ev.Name, fields: fields}
	var event domain.Event
	switch domain.EventKind(ev.Name) {
	case domain.EventTokensAdded:
		event = domain.TokensAdded{EventMeta: meta, User: f.address("user"), Amount: f.amount("amount")}
	case domain.EventTokensRemoved:
		event = domain.TokensRemoved{EventMeta: meta, From: f.address("from"), To: f.address("to"), Amount: f.amount("amount")}
	case domain.EventTokensPulled:
		event = domain.TokensPulled{EventMeta: meta, User: f.address("user"), Amount: f.amount("amount")}
	case domain.EventInsufficientBalance:
		event = domain.InsufficientBalanceForRemoval{EventMeta: meta, From: f.address("from"), To: f.address("to"), Amount: f.amount("amount")}
	case domain.EventCollectorUpdated:
		event = domain.CollectorUpdated{EventMeta: meta, Collector: f.address("collector"), Enabled: f.boolean("enabled")}
	case domain.EventNewOwnership:
		event = domain.NewOwnership{EventMeta: meta, From: f.address("from"), To: f.address("to")}
	case domain.EventTransfer:
		event = domain.Transfer{EventMeta: meta, From: f.address("from"), To: f.address("to"), Value: f.amount("value")}
	default:
		return nil, ErrUnknownLog
	}

	if f.err != nil {
		return nil, f.err
	}
	return event, nil
}

func indexed(args abi.Arguments) abi.Arguments {
	var out abi.Arguments
	for _, arg := range args {
		if arg.Indexed {
			out = append(out, arg)
		}
	}
	return out
}

func lowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// fieldReader extracts typed fields, remembering the first mismatch.
type fieldReader struct {
	event  string
	fields map[string]interface{}
	err    error
}

func (r *fieldReader) fail(name string) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: field %q has unexpected type %T", r.event, name, r.fields[name])
	}
}

func (r *fieldReader) address(name string) string {
	v, ok := r.fields[name].(common.Address)
	if !ok {
		r.fail(name)
		return ""
	}
	return lowerHex(v)
}

func (r *fieldReader) amount(name string) decimal.Decimal {
	v, ok := r.fields[name].(*big.Int)
	if !ok {
		r.fail(name)
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0)
}

func (r *fieldReader) boolean(name string) bool {
	v, ok := r.fields[name].(bool)
	if !ok {
		r.fail(name)
	}
	return v
}
