package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

// Load reads and parses the configuration file.
//
// Two layouts are accepted: a full config object, or a bare JSON array of
// network entries (the legacy chains.json layout) in which case every other
// setting takes its default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	data = trimWhitespace(data)
	if len(data) > 0 && data[0] == '[' {
		// Bare networks array
		if err := json.Unmarshal(data, &cfg.Networks); err != nil {
			return nil, fmt.Errorf("failed to parse networks: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) error {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.BlockCacheSize == 0 {
		cfg.BlockCacheSize = DefaultBlockCacheSize
	}

	// The PORT environment variable wins over the config file
	if portEnv := os.Getenv(PortEnvVar); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return fmt.Errorf("invalid %s value '%s': %w", PortEnvVar, portEnv, err)
		}
		cfg.Port = port
	}

	return nil
}

// validate checks the configuration for errors
func validate(cfg *Config) error {
	if len(cfg.Networks) == 0 {
		return errors.New("at least one network is required")
	}

	chainIDs := make(map[uint64]bool)
	for i, network := range cfg.Networks {
		if network.ChainID == 0 {
			return fmt.Errorf("network[%d]: chain_id is required", i)
		}

		if chainIDs[network.ChainID] {
			return fmt.Errorf("network[%d]: duplicate chain_id %d", i, network.ChainID)
		}
		chainIDs[network.ChainID] = true

		if network.RPCURL == "" {
			return fmt.Errorf("network[%d] (chain %d): rpc_url is required", i, network.ChainID)
		}

		if network.Symbol == "" {
			return fmt.Errorf("network[%d] (chain %d): symbol is required", i, network.ChainID)
		}
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("logLevel must be one of: debug, info, warn, error")
	}

	if cfg.QueueSize < 1 {
		return fmt.Errorf("queueSize must be positive")
	}

	if cfg.RequestTimeout < 1 {
		return fmt.Errorf("requestTimeout must be positive")
	}

	if cfg.BlockCacheSize < 1 {
		return fmt.Errorf("blockCacheSize must be positive")
	}

	return nil
}

// trimWhitespace removes leading whitespace from byte slice
func trimWhitespace(data []byte) []byte {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return data[i:]
		}
	}
	return data
}
