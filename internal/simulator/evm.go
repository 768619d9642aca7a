package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// transferTopic is the topic of the ERC-20 Transfer(address,address,uint256)
// event. Nodes reuse it for the virtual ether transfer logs emitted when
// traceTransfers is enabled.
var transferTopic = common.Hash(crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")))

// EVM simulates transactions through a node's eth_simulateV1 endpoint.
// Not safe for concurrent use.
type EVM struct {
	chainID uint64
	rpc     *rpc.Client
	logger  zerolog.Logger
}

// Dial connects a simulator to a network endpoint
func Dial(ctx context.Context, chainID uint64, rawurl string, logger zerolog.Logger) (*EVM, error) {
	client, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rawurl, err)
	}
	return &EVM{
		chainID: chainID,
		rpc:     client,
		logger:  logger.With().Str("component", "simulator").Uint64("chainId", chainID).Logger(),
	}, nil
}

// ChainID returns the chain this simulator is connected to
func (e *EVM) ChainID() uint64 {
	return e.chainID
}

// Close tears down the underlying connection
func (e *EVM) Close() {
	e.rpc.Close()
}

// simCall is the wire form of one simulated call
type simCall struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// simBlock is one simulated block of calls
type simBlock struct {
	BlockOverrides *blockOverrides `json:"blockOverrides,omitempty"`
	Calls          []simCall       `json:"calls"`
}

type blockOverrides struct {
	Time hexutil.Uint64 `json:"time,omitempty"`
}

// simRequest is the eth_simulateV1 parameter object
type simRequest struct {
	BlockStateCalls []simBlock `json:"blockStateCalls"`
	TraceTransfers  bool       `json:"traceTransfers"`
	Validation      bool       `json:"validation"`
}

type simCallError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// simCallResult is the wire form of one call result
type simCallResult struct {
	Status     hexutil.Uint64 `json:"status"`
	GasUsed    hexutil.Uint64 `json:"gasUsed"`
	ReturnData hexutil.Bytes  `json:"returnData"`
	Logs       []Log          `json:"logs"`
	Error      *simCallError  `json:"error,omitempty"`
}

// simBlockResult is the wire form of one simulated block result
type simBlockResult struct {
	Number hexutil.Uint64  `json:"number"`
	Calls  []simCallResult `json:"calls"`
}

// Run executes the batch against the configured endpoint. Stateful batches
// run as one simulated block so later transactions observe earlier state
// changes; stateless batches run each transaction in isolation against the
// same base block, aggregated into a single round trip.
func (e *EVM) Run(ctx context.Context, batch Batch) ([]Outcome, error) {
	if len(batch.Transactions) == 0 {
		return nil, nil
	}

	e.logger.Debug().
		Uint64("block", batch.Block.Number).
		Int("transactions", len(batch.Transactions)).
		Bool("stateful", batch.Stateful).
		Msg("running batch")

	if batch.Stateful {
		return e.runStateful(ctx, batch)
	}
	return e.runIsolated(ctx, batch)
}

func (e *EVM) runStateful(ctx context.Context, batch Batch) ([]Outcome, error) {
	req := newSimRequest(batch.Block, encodeCalls(batch.Transactions))

	var blocks []simBlockResult
	if err := e.rpc.CallContext(ctx, &blocks, "eth_simulateV1", req, hexutil.EncodeUint64(batch.Block.Number)); err != nil {
		return nil, fmt.Errorf("eth_simulateV1: %w", err)
	}
	if len(blocks) == 0 {
		return nil, errors.New("eth_simulateV1: empty result")
	}

	calls := blocks[0].Calls
	if len(calls) != len(batch.Transactions) {
		return nil, fmt.Errorf("eth_simulateV1: expected %d call results, got %d", len(batch.Transactions), len(calls))
	}

	outcomes := make([]Outcome, len(calls))
	for i, call := range calls {
		outcomes[i] = decodeCall(call)
	}
	return outcomes, nil
}

func (e *EVM) runIsolated(ctx context.Context, batch Batch) ([]Outcome, error) {
	calls := encodeCalls(batch.Transactions)

	results := make([][]simBlockResult, len(calls))
	elems := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		elems[i] = rpc.BatchElem{
			Method: "eth_simulateV1",
			Args: []interface{}{
				newSimRequest(batch.Block, []simCall{call}),
				hexutil.EncodeUint64(batch.Block.Number),
			},
			Result: &results[i],
		}
	}

	if err := e.rpc.BatchCallContext(ctx, elems); err != nil {
		return nil, fmt.Errorf("eth_simulateV1 batch: %w", err)
	}

	outcomes := make([]Outcome, len(calls))
	for i := range elems {
		if elems[i].Error != nil {
			outcomes[i] = Outcome{Err: elems[i].Error}
			continue
		}
		if len(results[i]) == 0 || len(results[i][0].Calls) != 1 {
			outcomes[i] = Outcome{Err: errors.New("eth_simulateV1: malformed result")}
			continue
		}
		outcomes[i] = decodeCall(results[i][0].Calls[0])
	}
	return outcomes, nil
}

func newSimRequest(block BlockContext, calls []simCall) simRequest {
	return simRequest{
		BlockStateCalls: []simBlock{{
			BlockOverrides: &blockOverrides{Time: hexutil.Uint64(block.Timestamp)},
			Calls:          calls,
		}},
		TraceTransfers: true,
	}
}

func encodeCalls(txs []Transaction) []simCall {
	calls := make([]simCall, len(txs))
	for i, tx := range txs {
		call := simCall{From: tx.From, To: tx.To}
		if tx.Value != nil && !tx.Value.IsZero() {
			call.Value = (*hexutil.Big)(tx.Value.ToBig())
		}
		if len(tx.Data) > 0 {
			call.Data = tx.Data
		}
		calls[i] = call
	}
	return calls
}

// decodeCall converts a wire call result into an Outcome. A reverted or
// otherwise failed call becomes a per-transaction error.
func decodeCall(call simCallResult) Outcome {
	if call.Status != 1 {
		msg := "execution failed"
		if call.Error != nil && call.Error.Message != "" {
			msg = call.Error.Message
		}
		return Outcome{Err: errors.New(msg)}
	}

	return Outcome{
		Execution: &ExecutionResult{
			GasUsed:    call.GasUsed,
			ReturnData: call.ReturnData,
		},
		Trace: &Trace{
			Logs:           call.Logs,
			AssetTransfers: parseTransfers(call.Logs),
		},
	}
}

// parseTransfers extracts asset transfers from Transfer event logs. Native
// transfers arrive as logs emitted by the sentinel token address.
func parseTransfers(logs []Log) []AssetTransfer {
	var transfers []AssetTransfer
	for _, log := range logs {
		if len(log.Topics) != 3 || log.Topics[0] != transferTopic {
			continue
		}
		transfers = append(transfers, AssetTransfer{
			Token: log.Address,
			From:  common.BytesToAddress(log.Topics[1].Bytes()),
			To:    common.BytesToAddress(log.Topics[2].Bytes()),
			Value: (*hexutil.Big)(new(big.Int).SetBytes(log.Data)),
		})
	}
	return transfers
}
