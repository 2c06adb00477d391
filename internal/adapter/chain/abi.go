package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// contractABI covers the billing contract events, its governor() getter and
// the ERC-20 Transfer event of the token contract.
const contractABI = `[
  {"type":"event","name":"TokensAdded","anonymous":false,"inputs":[
    {"name":"user","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"TokensRemoved","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"TokensPulled","anonymous":false,"inputs":[
    {"name":"user","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"InsufficientBalanceForRemoval","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"CollectorUpdated","anonymous":false,"inputs":[
    {"name":"collector","type":"address","indexed":true},
    {"name":"enabled","type":"bool","indexed":false}]},
  {"type":"event","name":"NewOwnership","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true}]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"value","type":"uint256","indexed":false}]},
  {"type":"function","name":"governor","stateMutability":"view","inputs":[],
    "outputs":[{"name":"","type":"address"}]}
]`

// ParsedABI returns the parsed contract ABI.
func ParsedABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		panic("chain: invalid contract ABI: " + err.Error())
	}
	return parsed
}
