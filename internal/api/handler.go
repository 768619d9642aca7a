package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"tracesim/internal/chains"
	"tracesim/internal/engine"
	"tracesim/internal/metrics"
	"tracesim/internal/simulator"
)

// Dispatcher submits jobs to the sequential executor
type Dispatcher interface {
	Submit(ctx context.Context, job *engine.Job) error
}

// BlockReader answers the read-only block queries needed to resolve a
// batch's execution block. Implementations must be safe for concurrent use.
type BlockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// Handler serves POST /simulate/batch. It validates inbound batches, builds
// jobs, submits them, and awaits results under the configured timeout.
type Handler struct {
	registry   *chains.Registry
	nodes      map[uint64]BlockReader
	dispatcher Dispatcher
	timeout    time.Duration
	blocks     *blockCache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewHandler creates a Handler
func NewHandler(registry *chains.Registry, nodes map[uint64]BlockReader, dispatcher Dispatcher, timeout time.Duration, cacheSize int, m *metrics.Metrics, logger zerolog.Logger) (*Handler, error) {
	blocks, err := newBlockCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create block cache: %w", err)
	}

	return &Handler{
		registry:   registry,
		nodes:      nodes,
		dispatcher: dispatcher,
		timeout:    timeout,
		blocks:     blocks,
		metrics:    m,
		logger:     logger.With().Str("component", "api").Logger(),
	}, nil
}

// ServeHTTP handles HTTP requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.metrics.HTTPRequests.WithLabelValues("405").Inc()
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, errSimulation(fmt.Sprintf("Failed to parse request: %s", err)))
		return
	}

	resp, apiErr := h.simulateBatch(r.Context(), &req)
	if apiErr != nil {
		h.writeError(w, apiErr)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// simulateBatch runs the full request path: validate, resolve the execution
// block, queue the job, await the result
func (h *Handler) simulateBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, *Error) {
	if !h.registry.Contains(req.ChainID) {
		return nil, errChainNotFound(req.ChainID)
	}

	txs, apiErr := req.transactions()
	if apiErr != nil {
		return nil, apiErr
	}

	block, apiErr := h.resolveBlock(ctx, req.ChainID, req.BlockNumber)
	if apiErr != nil {
		return nil, apiErr
	}

	job := engine.NewJob(req.ChainID, simulator.Batch{
		Block:        block,
		Stateful:     req.IsStateful,
		Transactions: txs,
	})

	if err := h.dispatcher.Submit(ctx, job); err != nil {
		return nil, errSimulation(fmt.Sprintf("Failed to send trace request: %s", err))
	}

	res, err := job.Wait(ctx, h.timeout)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrTimeout):
			return nil, errTimeout()
		case errors.Is(err, engine.ErrClosed):
			return nil, errSimulation("Response channel closed")
		default:
			return nil, errSimulation(err.Error())
		}
	}

	if res.Err != nil {
		return nil, errSimulation(res.Err.Error())
	}

	return newBatchResponse(block.Number, res), nil
}

// resolveBlock picks the execution block: the caller's explicit number when
// given, the chain head otherwise. The block's timestamp is fetched from the
// network, through the cache since mined headers never change.
func (h *Handler) resolveBlock(ctx context.Context, chainID uint64, explicit *uint64) (simulator.BlockContext, *Error) {
	node, ok := h.nodes[chainID]
	if !ok {
		// Registry and node map are built from the same config
		return simulator.BlockContext{}, errChainNotFound(chainID)
	}

	var number uint64
	if explicit != nil {
		number = *explicit
	} else {
		head, err := node.BlockNumber(ctx)
		if err != nil {
			return simulator.BlockContext{}, errSimulation(fmt.Sprintf("Failed to get block number: %s", err))
		}
		number = head
	}

	if timestamp, ok := h.blocks.get(chainID, number); ok {
		return simulator.BlockContext{Number: number, Timestamp: timestamp}, nil
	}

	timestamp, err := node.BlockTimestamp(ctx, number)
	if err != nil {
		return simulator.BlockContext{}, errSimulation(fmt.Sprintf("Failed to get block timestamp: %s", err))
	}
	h.blocks.set(chainID, number, timestamp)

	return simulator.BlockContext{Number: number, Timestamp: timestamp}, nil
}

func (h *Handler) writeError(w http.ResponseWriter, apiErr *Error) {
	h.logger.Debug().Str("error", apiErr.Error()).Msg("request rejected")
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiErr.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	h.metrics.HTTPRequests.WithLabelValues(fmt.Sprintf("%d", status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}
