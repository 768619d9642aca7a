package chains

import (
	"sort"

	"tracesim/internal/config"
)

// Network holds the connection endpoint and native-asset metadata for one
// supported chain.
type Network struct {
	ChainID  uint64
	RPCURL   string
	Symbol   string
	Decimals uint8
}

// Registry maps chain IDs to their networks. It is built once at startup and
// never mutated afterwards, so it is safe to share across goroutines without
// locking.
type Registry struct {
	networks map[uint64]Network
}

// NewRegistry builds a registry from validated network configuration
func NewRegistry(cfgs []config.NetworkConfig) *Registry {
	networks := make(map[uint64]Network, len(cfgs))
	for _, cfg := range cfgs {
		networks[cfg.ChainID] = Network{
			ChainID:  cfg.ChainID,
			RPCURL:   cfg.RPCURL,
			Symbol:   cfg.Symbol,
			Decimals: cfg.Decimals,
		}
	}
	return &Registry{networks: networks}
}

// Get returns the network for a chain ID
func (r *Registry) Get(chainID uint64) (Network, bool) {
	network, ok := r.networks[chainID]
	return network, ok
}

// Contains reports whether a chain ID is configured
func (r *Registry) Contains(chainID uint64) bool {
	_, ok := r.networks[chainID]
	return ok
}

// ChainIDs returns all configured chain IDs in ascending order
func (r *Registry) ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of configured networks
func (r *Registry) Len() int {
	return len(r.networks)
}
