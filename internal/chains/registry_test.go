package chains

import (
	"testing"

	"tracesim/internal/config"
)

func testNetworks() []config.NetworkConfig {
	return []config.NetworkConfig{
		{ChainID: 1, RPCURL: "http://localhost:8545", Symbol: "ETH", Decimals: 18},
		{ChainID: 56, RPCURL: "http://localhost:8546", Symbol: "BNB", Decimals: 18},
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(testNetworks())

	network, ok := r.Get(1)
	if !ok {
		t.Fatal("chain 1 not found")
	}
	if network.Symbol != "ETH" || network.Decimals != 18 {
		t.Errorf("network = %+v", network)
	}

	if _, ok := r.Get(999); ok {
		t.Error("chain 999 should not exist")
	}
}

func TestRegistry_Contains(t *testing.T) {
	r := NewRegistry(testNetworks())

	if !r.Contains(56) {
		t.Error("chain 56 should exist")
	}
	if r.Contains(137) {
		t.Error("chain 137 should not exist")
	}
}

func TestRegistry_ChainIDs(t *testing.T) {
	r := NewRegistry(testNetworks())

	ids := r.ChainIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 56 {
		t.Errorf("chainIDs = %v, want [1 56]", ids)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
}
