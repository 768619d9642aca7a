// Package engine is the single-writer dispatch core: many concurrent
// request handlers submit jobs into a bounded FIFO queue, and one loop
// processes them sequentially. That loop is the only code that ever touches
// simulator state, so the per-network simulators need no locking.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"tracesim/internal/chains"
	"tracesim/internal/metrics"
	"tracesim/internal/simulator"
	"tracesim/internal/token"
)

// Engine owns the job queue, the sequential executor loop, and all
// per-network simulator instances.
type Engine struct {
	jobs     chan *Job
	sims     map[uint64]simulator.Simulator
	registry *chains.Registry
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an engine. The simulators map is handed over: after this call
// the engine is their exclusive owner and nothing else may use them.
func New(registry *chains.Registry, sims map[uint64]simulator.Simulator, queueSize int, m *metrics.Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		jobs:     make(chan *Job, queueSize),
		sims:     sims,
		registry: registry,
		metrics:  m,
		logger:   logger.With().Str("component", "engine").Logger(),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the executor loop
func (e *Engine) Start() {
	go e.run()
	e.logger.Info().Int("queueSize", cap(e.jobs)).Msg("engine started")
}

// Submit enqueues a job in FIFO order. It blocks while the queue is full;
// that suspension is the system's only backpressure mechanism. Returns an
// error once shutdown has begun or when the caller's context is done.
func (e *Engine) Submit(ctx context.Context, job *Job) error {
	select {
	case <-e.quit:
		return ErrShuttingDown
	default:
	}

	select {
	case e.jobs <- job:
		e.metrics.QueueDepth.Set(float64(len(e.jobs)))
		return nil
	case <-e.quit:
		return ErrShuttingDown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals shutdown, waits for the loop to finish its in-flight job and
// exit, then abandons whatever was still queued so waiting callers see a
// closed channel instead of a timeout.
func (e *Engine) Stop(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.quit) })

	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		select {
		case job := <-e.jobs:
			job.Abandon()
		default:
			for _, sim := range e.sims {
				sim.Close()
			}
			e.logger.Info().Msg("engine stopped")
			return nil
		}
	}
}

// run is the sequential executor loop. Shutdown is observed at the queue
// receive; a job already being processed runs to completion.
func (e *Engine) run() {
	defer close(e.done)

	for {
		// Shutdown wins over pending work: nothing queued behind the
		// signal is dequeued.
		select {
		case <-e.quit:
			return
		default:
		}

		select {
		case <-e.quit:
			return
		case job := <-e.jobs:
			e.metrics.QueueDepth.Set(float64(len(e.jobs)))
			e.process(job)
		}
	}
}

// process executes one job and makes the single delivery attempt. It always
// produces a result, even for lookup failures; it never panics the loop.
func (e *Engine) process(job *Job) {
	start := time.Now()

	sim, ok := e.sims[job.ChainID]
	if !ok {
		// Frontend validation should make this unreachable
		e.fail(job, fmt.Errorf("simulator not found for chain %d", job.ChainID))
		return
	}

	ctx := context.Background()

	outcomes, err := sim.Run(ctx, job.Batch)
	if err != nil {
		e.fail(job, err)
		return
	}

	infos := make(map[common.Address]simulator.TokenInfo)
	if tokens := collectTokens(outcomes); len(tokens) > 0 {
		infos, err = token.Resolve(ctx, sim, job.Batch.Block.Number, tokens)
		if err != nil {
			// Metadata failure degrades to whole-batch failure even when
			// individual transactions succeeded.
			e.fail(job, fmt.Errorf("failed to get token infos: %w", err))
			return
		}
	}

	network, ok := e.registry.Get(job.ChainID)
	if !ok {
		e.fail(job, fmt.Errorf("network not found for chain %d", job.ChainID))
		return
	}
	infos[simulator.NativeTokenAddress] = simulator.TokenInfo{
		Symbol:   network.Symbol,
		Decimals: network.Decimals,
	}

	job.Deliver(&Result{Outcomes: outcomes, TokenInfos: infos})

	e.metrics.JobsProcessed.WithLabelValues(metrics.StatusOK).Inc()
	e.metrics.JobDuration.Observe(time.Since(start).Seconds())
	e.logger.Debug().
		Uint64("chainId", job.ChainID).
		Int("transactions", len(job.Batch.Transactions)).
		Dur("took", time.Since(start)).
		Msg("job processed")
}

func (e *Engine) fail(job *Job, err error) {
	e.logger.Error().Err(err).Uint64("chainId", job.ChainID).Msg("job failed")
	job.Deliver(&Result{Err: err})
	e.metrics.JobsProcessed.WithLabelValues(metrics.StatusError).Inc()
}

// collectTokens gathers the distinct non-native token addresses referenced
// by successful outcomes, in order of first appearance.
func collectTokens(outcomes []simulator.Outcome) []common.Address {
	var tokens []common.Address
	seen := make(map[common.Address]bool)
	for _, outcome := range outcomes {
		if outcome.Err != nil || outcome.Trace == nil {
			continue
		}
		for _, transfer := range outcome.Trace.AssetTransfers {
			if transfer.Token == simulator.NativeTokenAddress || seen[transfer.Token] {
				continue
			}
			seen[transfer.Token] = true
			tokens = append(tokens, transfer.Token)
		}
	}
	return tokens
}
