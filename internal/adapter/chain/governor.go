package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// GovernorReader implements usecase.GovernorSource by calling governor() on
// the billing contract at the latest block.
type GovernorReader struct {
	client Client
	abi    abi.ABI
}

// NewGovernorReader creates a GovernorReader.
func NewGovernorReader(client Client) *GovernorReader {
	return &GovernorReader{client: client, abi: ParsedABI()}
}

func (r *GovernorReader) Governor(ctx context.Context, contract string) (string, error) {
	if !common.IsHexAddress(contract) {
		return "", fmt.Errorf("governor: invalid contract address %q", contract)
	}

	input, err := r.abi.Pack("governor")
	if err != nil {
		return "", err
	}

	to := common.HexToAddress(contract)
	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return "", fmt.Errorf("governor(): %w", err)
	}

	values, err := r.abi.Unpack("governor", out)
	if err != nil {
		return "", fmt.Errorf("governor(): %w", err)
	}
	if len(values) != 1 {
		return "", fmt.Errorf("governor(): expected 1 output, got %d", len(values))
	}

	governor, ok := values[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("governor(): unexpected output type %T", values[0])
	}

	return lowerHex(governor), nil
}
