package api

import (
	"tracesim/internal/engine"
	"tracesim/internal/simulator"
)

// TransactionResult is the rendered outcome of one simulated transaction
type TransactionResult struct {
	BlockNumber     uint64                     `json:"block_number"`
	Error           *string                    `json:"error"`
	ExecutionResult *simulator.ExecutionResult `json:"execution_result"`
	TraceResult     *simulator.Trace           `json:"trace_result"`
}

// BatchResponse is the body of a successful POST /simulate/batch
type BatchResponse struct {
	Results    []TransactionResult            `json:"results"`
	TokenInfos map[string]simulator.TokenInfo `json:"token_infos,omitempty"`
}

// errorResponse is the body of every rejected request
type errorResponse struct {
	Error string `json:"error"`
}

// newBatchResponse renders an engine result. Outcome order matches request
// order; per-transaction failures become per-entry error strings.
func newBatchResponse(blockNumber uint64, res *engine.Result) *BatchResponse {
	results := make([]TransactionResult, len(res.Outcomes))
	for i, outcome := range res.Outcomes {
		result := TransactionResult{BlockNumber: blockNumber}
		if outcome.Err != nil {
			msg := "Trace error: " + outcome.Err.Error()
			result.Error = &msg
		} else {
			result.ExecutionResult = outcome.Execution
			result.TraceResult = outcome.Trace
		}
		results[i] = result
	}

	infos := make(map[string]simulator.TokenInfo, len(res.TokenInfos))
	for addr, info := range res.TokenInfos {
		infos[addr.Hex()] = info
	}

	return &BatchResponse{Results: results, TokenInfos: infos}
}
