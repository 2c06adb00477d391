package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/billingledger/internal/domain"
	"github.com/iho/billingledger/internal/usecase"
)

const (
	billingAddr = "0x00000000000000000000000000000000000000B1"
	tokenAddr   = "0x00000000000000000000000000000000000000C1"
	userAddr    = "0x0101010101010101010101010101010101010101"
	otherAddr   = "0x0202020202020202020202020202020202020202"
)

type fakeClient struct {
	mu          sync.Mutex
	head        uint64
	logs        []types.Log
	headers     map[uint64]uint64
	headerCalls int
	failLogs    int
	callOutput  []byte
	lastCall    ethereum.CallMsg
}

func (c *fakeClient) BlockNumber(context.Context) (uint64, error) {
	return c.head, nil
}

func (c *fakeClient) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headerCalls++
	ts, ok := c.headers[number.Uint64()]
	if !ok {
		return nil, fmt.Errorf("no header %s", number)
	}
	return &types.Header{Number: number, Time: ts}, nil
}

func (c *fakeClient) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failLogs > 0 {
		c.failLogs--
		return nil, errors.New("connection reset")
	}
	var out []types.Log
	for _, l := range c.logs {
		if l.BlockNumber >= q.FromBlock.Uint64() && l.BlockNumber <= q.ToBlock.Uint64() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (c *fakeClient) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.lastCall = msg
	return c.callOutput, nil
}

type mapCache struct {
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func addrTopic(addr string) common.Hash {
	return common.BytesToHash(common.HexToAddress(addr).Bytes())
}

func buildLog(t *testing.T, contract, name string, block uint64, index uint, topics []common.Hash, data ...interface{}) types.Log {
	t.Helper()
	ev, ok := ParsedABI().Events[name]
	require.True(t, ok, "event %s missing from ABI", name)

	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return types.Log{
		Address:     common.HexToAddress(contract),
		Topics:      append([]common.Hash{ev.ID}, topics...),
		Data:        packed,
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block)),
		Index:       index,
	}
}

func TestDecodeBillingEvents(t *testing.T) {
	d := NewLogDecoder(billingAddr, tokenAddr)
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211456", 10)

	tests := []struct {
		name string
		log  types.Log
		want domain.Event
	}{
		{
			name: "tokens added",
			log:  buildLog(t, billingAddr, "TokensAdded", 10, 2, []common.Hash{addrTopic(userAddr)}, big.NewInt(100)),
			want: domain.TokensAdded{User: userAddr, Amount: decimal.NewFromInt(100)},
		},
		{
			name: "tokens removed keeps recipient",
			log:  buildLog(t, billingAddr, "TokensRemoved", 10, 3, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}, big.NewInt(30)),
			want: domain.TokensRemoved{From: userAddr, To: otherAddr, Amount: decimal.NewFromInt(30)},
		},
		{
			name: "tokens pulled beyond uint64",
			log:  buildLog(t, billingAddr, "TokensPulled", 10, 4, []common.Hash{addrTopic(userAddr)}, huge),
			want: domain.TokensPulled{User: userAddr, Amount: decimal.NewFromBigInt(huge, 0)},
		},
		{
			name: "insufficient balance",
			log:  buildLog(t, billingAddr, "InsufficientBalanceForRemoval", 10, 5, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}, big.NewInt(7)),
			want: domain.InsufficientBalanceForRemoval{From: userAddr, To: otherAddr, Amount: decimal.NewFromInt(7)},
		},
		{
			name: "collector disabled",
			log:  buildLog(t, billingAddr, "CollectorUpdated", 10, 6, []common.Hash{addrTopic(otherAddr)}, false),
			want: domain.CollectorUpdated{Collector: otherAddr, Enabled: false},
		},
		{
			name: "new ownership has no data",
			log:  buildLog(t, billingAddr, "NewOwnership", 10, 7, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}),
			want: domain.NewOwnership{From: userAddr, To: otherAddr},
		},
		{
			name: "token transfer",
			log:  buildLog(t, tokenAddr, "Transfer", 10, 8, []common.Hash{addrTopic(domain.ZeroAddress), addrTopic(userAddr)}, big.NewInt(5)),
			want: domain.Transfer{From: domain.ZeroAddress, To: userAddr, Value: decimal.NewFromInt(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(tt.log, 1608163200)
			require.NoError(t, err)
			require.Equal(t, tt.want.Kind(), got.Kind())

			meta := got.Metadata()
			assert.Equal(t, uint64(10), meta.BlockNumber)
			assert.Equal(t, uint64(tt.log.Index), meta.LogIndex)
			assert.Equal(t, int64(1608163200), meta.Timestamp)
			assert.Equal(t, tt.log.TxHash.Hex(), meta.TxHash)

			// Compare payloads with the envelope cleared.
			assert.Equal(t, stripMeta(tt.want), stripMeta(got))
		})
	}
}

func stripMeta(e domain.Event) string {
	switch v := e.(type) {
	case domain.TokensAdded:
		return fmt.Sprintf("%s %s %s", v.Kind(), v.User, v.Amount)
	case domain.TokensRemoved:
		return fmt.Sprintf("%s %s %s %s", v.Kind(), v.From, v.To, v.Amount)
	case domain.TokensPulled:
		return fmt.Sprintf("%s %s %s", v.Kind(), v.User, v.Amount)
	case domain.InsufficientBalanceForRemoval:
		return fmt.Sprintf("%s %s %s %s", v.Kind(), v.From, v.To, v.Amount)
	case domain.CollectorUpdated:
		return fmt.Sprintf("%s %s %t", v.Kind(), v.Collector, v.Enabled)
	case domain.NewOwnership:
		return fmt.Sprintf("%s %s %s", v.Kind(), v.From, v.To)
	case domain.Transfer:
		return fmt.Sprintf("%s %s %s %s", v.Kind(), v.From, v.To, v.Value)
	}
	return ""
}

func TestDecodeRejectsForeignLogs(t *testing.T) {
	d := NewLogDecoder(billingAddr, tokenAddr)

	transferFromBilling := buildLog(t, billingAddr, "Transfer", 1, 0, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}, big.NewInt(1))
	_, err := d.Decode(transferFromBilling, 0)
	assert.ErrorIs(t, err, ErrUnknownLog)

	addedFromToken := buildLog(t, tokenAddr, "TokensAdded", 1, 0, []common.Hash{addrTopic(userAddr)}, big.NewInt(1))
	_, err = d.Decode(addedFromToken, 0)
	assert.ErrorIs(t, err, ErrUnknownLog)

	unknown := types.Log{Address: common.HexToAddress(billingAddr), Topics: []common.Hash{common.HexToHash("0xdead")}}
	_, err = d.Decode(unknown, 0)
	assert.ErrorIs(t, err, ErrUnknownLog)

	_, err = d.Decode(types.Log{Address: common.HexToAddress(billingAddr)}, 0)
	assert.ErrorIs(t, err, ErrUnknownLog)
}

func TestDecodeWithoutTokenContractIgnoresTransfers(t *testing.T) {
	d := NewLogDecoder(billingAddr, "")
	require.Len(t, d.Addresses(), 1)

	l := buildLog(t, tokenAddr, "Transfer", 1, 0, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}, big.NewInt(1))
	_, err := d.Decode(l, 0)
	assert.ErrorIs(t, err, ErrUnknownLog)
}

func TestDecodeMalformedDataFails(t *testing.T) {
	d := NewLogDecoder(billingAddr, tokenAddr)

	l := buildLog(t, billingAddr, "TokensAdded", 1, 0, []common.Hash{addrTopic(userAddr)}, big.NewInt(1))
	l.Data = l.Data[:10]

	_, err := d.Decode(l, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownLog)
}

func newTestSource(client *fakeClient, cache usecase.Cache) *LogSource {
	return NewLogSource(client, NewLogDecoder(billingAddr, tokenAddr), cache, SourceConfig{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		MaxRetries:     3,
	}, zerolog.Nop(), nil)
}

func TestFetchOrdersAndFilters(t *testing.T) {
	removed := buildLog(t, billingAddr, "TokensAdded", 11, 0, []common.Hash{addrTopic(otherAddr)}, big.NewInt(9))
	removed.Removed = true

	client := &fakeClient{
		logs: []types.Log{
			buildLog(t, billingAddr, "TokensPulled", 12, 1, []common.Hash{addrTopic(userAddr)}, big.NewInt(10)),
			buildLog(t, billingAddr, "TokensAdded", 11, 4, []common.Hash{addrTopic(userAddr)}, big.NewInt(100)),
			removed,
			{Address: common.HexToAddress(billingAddr), Topics: []common.Hash{common.HexToHash("0xbeef")}, BlockNumber: 12},
			buildLog(t, billingAddr, "TokensRemoved", 12, 0, []common.Hash{addrTopic(userAddr), addrTopic(otherAddr)}, big.NewInt(30)),
		},
		headers: map[uint64]uint64{11: 1608163200, 12: 1608163215},
	}

	events, err := newTestSource(client, nil).Fetch(context.Background(), 10, 12)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, domain.EventTokensAdded, events[0].Kind())
	assert.Equal(t, domain.EventTokensRemoved, events[1].Kind())
	assert.Equal(t, domain.EventTokensPulled, events[2].Kind())
	assert.Equal(t, int64(1608163200), events[0].Metadata().Timestamp)
	assert.Equal(t, int64(1608163215), events[2].Metadata().Timestamp)

	// One header lookup per distinct block.
	assert.Equal(t, 2, client.headerCalls)
}

func TestFetchUsesBlockTimeCache(t *testing.T) {
	client := &fakeClient{
		logs: []types.Log{
			buildLog(t, billingAddr, "TokensAdded", 20, 0, []common.Hash{addrTopic(userAddr)}, big.NewInt(1)),
		},
		headers: map[uint64]uint64{20: 1700000000},
	}
	cache := &mapCache{data: map[string][]byte{}}
	source := newTestSource(client, cache)

	_, err := source.Fetch(context.Background(), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte("1700000000"), cache.data["20"])

	_, err = source.Fetch(context.Background(), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, client.headerCalls)
}

func TestFetchRetriesTransientRPCErrors(t *testing.T) {
	client := &fakeClient{
		logs: []types.Log{
			buildLog(t, billingAddr, "TokensAdded", 5, 0, []common.Hash{addrTopic(userAddr)}, big.NewInt(1)),
		},
		headers:  map[uint64]uint64{5: 1},
		failLogs: 2,
	}

	events, err := newTestSource(client, nil).Fetch(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	client := &fakeClient{failLogs: 10}

	_, err := newTestSource(client, nil).Fetch(context.Background(), 1, 5)
	require.Error(t, err)
	assert.False(t, domain.IsFatal(err))
}

func TestFetchEmptyRange(t *testing.T) {
	events, err := newTestSource(&fakeClient{}, nil).Fetch(context.Background(), 6, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHead(t *testing.T) {
	head, err := newTestSource(&fakeClient{head: 42}, nil).Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), head)
}

func TestGovernorReader(t *testing.T) {
	parsed := ParsedABI()
	out, err := parsed.Methods["governor"].Outputs.Pack(common.HexToAddress("0x00000000000000000000000000000000000000AA"))
	require.NoError(t, err)

	client := &fakeClient{callOutput: out}
	governor, err := NewGovernorReader(client).Governor(context.Background(), billingAddr)
	require.NoError(t, err)

	assert.Equal(t, "0x00000000000000000000000000000000000000aa", governor)
	require.NotNil(t, client.lastCall.To)
	assert.Equal(t, common.HexToAddress(billingAddr), *client.lastCall.To)
	assert.Equal(t, parsed.Methods["governor"].ID, client.lastCall.Data)
}

func TestGovernorReaderRejectsBadAddress(t *testing.T) {
	_, err := NewGovernorReader(&fakeClient{}).Governor(context.Background(), "not-an-address")
	require.Error(t, err)
}
