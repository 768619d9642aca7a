package simulator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const erc20MetadataABI = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

var erc20ABI = mustParseABI(erc20MetadataABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// callParams is the wire form of an eth_call parameter object
type callParams struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// TokenInfos resolves symbol and decimals for each token at the given block
// through a single aggregated eth_call batch. All-or-nothing: if any call or
// decode fails, the whole resolution fails.
func (e *EVM) TokenInfos(ctx context.Context, block uint64, tokens []common.Address) ([]TokenInfo, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	symbolData, err := erc20ABI.Pack("symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to pack symbol call: %w", err)
	}
	decimalsData, err := erc20ABI.Pack("decimals")
	if err != nil {
		return nil, fmt.Errorf("failed to pack decimals call: %w", err)
	}

	blockTag := hexutil.EncodeUint64(block)
	results := make([]hexutil.Bytes, 2*len(tokens))
	elems := make([]rpc.BatchElem, 2*len(tokens))
	for i, token := range tokens {
		elems[2*i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callParams{To: token, Data: symbolData}, blockTag},
			Result: &results[2*i],
		}
		elems[2*i+1] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callParams{To: token, Data: decimalsData}, blockTag},
			Result: &results[2*i+1],
		}
	}

	if err := e.rpc.BatchCallContext(ctx, elems); err != nil {
		return nil, fmt.Errorf("token metadata batch: %w", err)
	}
	for i := range elems {
		if elems[i].Error != nil {
			return nil, fmt.Errorf("token metadata call for %s: %w", tokens[i/2], elems[i].Error)
		}
	}

	infos := make([]TokenInfo, len(tokens))
	for i, token := range tokens {
		symbol, err := unpackSymbol(results[2*i])
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", token, err)
		}
		decimals, err := unpackDecimals(results[2*i+1])
		if err != nil {
			return nil, fmt.Errorf("token %s: %w", token, err)
		}
		infos[i] = TokenInfo{Symbol: symbol, Decimals: decimals}
	}
	return infos, nil
}

func unpackSymbol(data []byte) (string, error) {
	values, err := erc20ABI.Unpack("symbol", data)
	if err != nil {
		return "", fmt.Errorf("failed to decode symbol: %w", err)
	}
	symbol, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol type %T", values[0])
	}
	return symbol, nil
}

func unpackDecimals(data []byte) (uint8, error) {
	values, err := erc20ABI.Unpack("decimals", data)
	if err != nil {
		return 0, fmt.Errorf("failed to decode decimals: %w", err)
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", values[0])
	}
	return decimals, nil
}
