package simulator

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// NativeTokenAddress is the sentinel address identifying the network's base
// currency in asset transfers and token metadata. It matches the virtual
// token address nodes use for ether transfer logs.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// BlockContext pins a batch to one execution block
type BlockContext struct {
	Number    uint64
	Timestamp uint64
}

// Transaction is a single simulated transaction. A nil To means contract
// creation.
type Transaction struct {
	From  common.Address
	To    *common.Address
	Value *uint256.Int
	Data  []byte
}

// Batch is an ordered set of transactions executed against one block.
// When Stateful is set, each transaction observes the cumulative state
// changes of the transactions before it in the same batch.
type Batch struct {
	Block        BlockContext
	Stateful     bool
	Transactions []Transaction
}

// ExecutionResult is the outcome of one successfully executed transaction
type ExecutionResult struct {
	GasUsed    hexutil.Uint64 `json:"gas_used"`
	ReturnData hexutil.Bytes  `json:"return_data"`
}

// Log is a single event emitted during simulation
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// AssetTransfer records value moved between addresses during a transaction.
// Token is NativeTokenAddress for base-currency transfers.
type AssetTransfer struct {
	Token common.Address `json:"token"`
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
}

// Trace is the trace payload of one executed transaction
type Trace struct {
	Logs           []Log           `json:"logs"`
	AssetTransfers []AssetTransfer `json:"asset_transfers"`
}

// Outcome is the per-transaction result of a batch run. Err is set for a
// failed transaction, in which case Execution and Trace are nil; a failed
// transaction is a normal outcome, not a batch failure.
type Outcome struct {
	Execution *ExecutionResult
	Trace     *Trace
	Err       error
}

// TokenInfo is the resolved metadata of one asset
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Simulator executes transaction batches against one network's state and
// answers token metadata queries. Implementations are not safe for
// concurrent use; the engine owns each instance exclusively.
type Simulator interface {
	// Run executes the batch in order, one Outcome per transaction. The
	// returned error indicates the whole batch could not be executed.
	Run(ctx context.Context, batch Batch) ([]Outcome, error)

	// TokenInfos resolves metadata for the given token addresses at the
	// given block, in input order. All-or-nothing: any individual failure
	// fails the whole call.
	TokenInfos(ctx context.Context, block uint64, tokens []common.Address) ([]TokenInfo, error)

	// Close tears down the underlying connection
	Close()
}
