package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chains.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NetworksArray(t *testing.T) {
	path := writeConfig(t, `[
		{"chain_id": 1, "rpc_url": "http://localhost:8545", "symbol": "ETH", "decimals": 18},
		{"chain_id": 56, "rpc_url": "http://localhost:8546", "symbol": "BNB", "decimals": 18}
	]`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Networks) != 2 {
		t.Fatalf("networks = %d, want 2", len(cfg.Networks))
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %d, want default %d", cfg.Port, DefaultPort)
	}
	if cfg.QueueSize != DefaultQueueSize {
		t.Errorf("queueSize = %d, want default %d", cfg.QueueSize, DefaultQueueSize)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("requestTimeout = %d, want default %d", cfg.RequestTimeout, DefaultRequestTimeout)
	}
}

func TestLoad_FullObject(t *testing.T) {
	path := writeConfig(t, `{
		"host": "0.0.0.0",
		"port": 9090,
		"logLevel": "debug",
		"queueSize": 8,
		"networks": [{"chain_id": 1, "rpc_url": "http://localhost:8545", "symbol": "ETH", "decimals": 18}]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("host = %s", cfg.Host)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.QueueSize != 8 {
		t.Errorf("queueSize = %d", cfg.QueueSize)
	}
}

func TestLoad_PortEnvOverride(t *testing.T) {
	t.Setenv(PortEnvVar, "3000")

	path := writeConfig(t, `[{"chain_id": 1, "rpc_url": "http://localhost:8545", "symbol": "ETH", "decimals": 18}]`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("port = %d, want 3000 from env", cfg.Port)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv(PortEnvVar, "not-a-port")

	path := writeConfig(t, `[{"chain_id": 1, "rpc_url": "http://localhost:8545", "symbol": "ETH", "decimals": 18}]`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid PORT value")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no networks", `[]`},
		{"missing chain_id", `[{"rpc_url": "http://localhost:8545", "symbol": "ETH", "decimals": 18}]`},
		{"duplicate chain_id", `[
			{"chain_id": 1, "rpc_url": "http://a", "symbol": "ETH", "decimals": 18},
			{"chain_id": 1, "rpc_url": "http://b", "symbol": "ETH", "decimals": 18}
		]`},
		{"missing rpc_url", `[{"chain_id": 1, "symbol": "ETH", "decimals": 18}]`},
		{"missing symbol", `[{"chain_id": 1, "rpc_url": "http://localhost:8545", "decimals": 18}]`},
		{"bad log level", `{"logLevel": "verbose", "networks": [{"chain_id": 1, "rpc_url": "http://a", "symbol": "ETH", "decimals": 18}]}`},
		{"negative queue size", `{"queueSize": -1, "networks": [{"chain_id": 1, "rpc_url": "http://a", "symbol": "ETH", "decimals": 18}]}`},
		{"malformed json", `[{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
