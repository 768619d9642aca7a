package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Host           string          `json:"host"`
	Port           int             `json:"port"`
	LogLevel       string          `json:"logLevel"`
	QueueSize      int             `json:"queueSize"`
	RequestTimeout int             `json:"requestTimeout"` // seconds - how long a caller waits for a simulation result
	BlockCacheSize int             `json:"blockCacheSize"` // number of cached block timestamps
	Networks       []NetworkConfig `json:"networks"`
}

// NetworkConfig describes one supported network and its native asset
type NetworkConfig struct {
	ChainID  uint64 `json:"chain_id"`
	RPCURL   string `json:"rpc_url"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Default values
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultQueueSize      = 32
	DefaultRequestTimeout = 300 // seconds
	DefaultBlockCacheSize = 1024

	// PortEnvVar overrides the configured listen port when set
	PortEnvVar = "PORT"
)

// GetRequestTimeoutDuration returns the caller wait timeout as time.Duration
func (c *Config) GetRequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
