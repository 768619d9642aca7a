package chains

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is a read-only connection to a network endpoint, used by request
// handlers to resolve execution blocks. It is safe for concurrent use and is
// deliberately separate from the simulator connection owned by the engine.
type Client struct {
	rpc *rpc.Client
}

// Dial connects a read-only client to a network endpoint
func Dial(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rawurl, err)
	}
	return &Client{rpc: c}, nil
}

// BlockNumber returns the current head block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &result, "eth_blockNumber"); err != nil {
		return 0, fmt.Errorf("eth_blockNumber: %w", err)
	}
	return uint64(result), nil
}

// BlockTimestamp returns the timestamp of the given block number. The block
// must exist; a missing block is an error.
func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	var header *struct {
		Timestamp hexutil.Uint64 `json:"timestamp"`
	}
	err := c.rpc.CallContext(ctx, &header, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false)
	if err != nil {
		return 0, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}
	if header == nil {
		return 0, fmt.Errorf("block %d not found", number)
	}
	return uint64(header.Timestamp), nil
}

// Close tears down the underlying connection
func (c *Client) Close() {
	c.rpc.Close()
}
