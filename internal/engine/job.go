package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"tracesim/internal/simulator"
)

// Wait failure modes, distinguished so callers can report them differently
var (
	// ErrTimeout means the caller's wait exceeded the configured limit.
	// The engine is not notified and finishes the job anyway; its delivery
	// is silently dropped.
	ErrTimeout = errors.New("trace request timed out")

	// ErrClosed means the completion channel was closed before delivery,
	// which only happens when the engine shuts down with the job still
	// queued.
	ErrClosed = errors.New("response channel closed")

	// ErrShuttingDown is returned by Submit once shutdown has begun
	ErrShuttingDown = errors.New("engine is shutting down")
)

// Result is the outcome of one processed job. Err is a batch-level failure;
// per-transaction failures live inside Outcomes.
type Result struct {
	Outcomes   []simulator.Outcome
	TokenInfos map[common.Address]simulator.TokenInfo
	Err        error
}

// Job pairs a batch with a one-shot completion channel. It is created by the
// request handler, consumed exactly once by the engine, then discarded.
type Job struct {
	ChainID uint64
	Batch   simulator.Batch

	result chan *Result
}

// NewJob creates a job with a fresh completion channel
func NewJob(chainID uint64, batch simulator.Batch) *Job {
	return &Job{
		ChainID: chainID,
		Batch:   batch,
		// Buffered so delivery never blocks the engine when the caller
		// has already given up.
		result: make(chan *Result, 1),
	}
}

// Deliver makes the single delivery attempt. It never blocks: if the slot is
// already taken the result is dropped.
func (j *Job) Deliver(res *Result) {
	select {
	case j.result <- res:
	default:
	}
}

// Abandon closes the completion channel without delivering a result. Only
// the engine calls this, for jobs drained during shutdown.
func (j *Job) Abandon() {
	close(j.result)
}

// Wait blocks until the job's result is delivered, the timeout expires, or
// the context is done
func (j *Job) Wait(ctx context.Context, timeout time.Duration) (*Result, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res, ok := <-j.result:
		if !ok {
			return nil, ErrClosed
		}
		return res, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
