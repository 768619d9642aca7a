// Package token resolves asset metadata for addresses observed in
// simulation traces.
//
// Resolution is all-or-nothing and deliberately uncached: repeated batches
// referencing the same asset recompute its metadata every time.
package token

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"tracesim/internal/simulator"
)

// MetadataSource answers aggregate token metadata queries
type MetadataSource interface {
	TokenInfos(ctx context.Context, block uint64, tokens []common.Address) ([]simulator.TokenInfo, error)
}

// Resolve fetches metadata for each token at the given block in one
// aggregate query and keys the result by token address. Any underlying
// failure fails the whole call; no partial metadata is returned.
func Resolve(ctx context.Context, src MetadataSource, block uint64, tokens []common.Address) (map[common.Address]simulator.TokenInfo, error) {
	if len(tokens) == 0 {
		return map[common.Address]simulator.TokenInfo{}, nil
	}

	infos, err := src.TokenInfos(ctx, block, tokens)
	if err != nil {
		return nil, err
	}
	if len(infos) != len(tokens) {
		return nil, fmt.Errorf("expected %d token infos, got %d", len(tokens), len(infos))
	}

	resolved := make(map[common.Address]simulator.TokenInfo, len(tokens))
	for i, token := range tokens {
		resolved[token] = infos[i]
	}
	return resolved, nil
}
