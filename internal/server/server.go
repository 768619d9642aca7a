package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tracesim/internal/api"
	"tracesim/internal/chains"
	"tracesim/internal/config"
	"tracesim/internal/engine"
	"tracesim/internal/metrics"
	"tracesim/internal/simulator"
)

// Server wires the registry, simulators, engine, and HTTP frontend together
type Server struct {
	cfg        *config.Config
	registry   *chains.Registry
	nodes      map[uint64]*chains.Client
	engine     *engine.Engine
	handler    *api.Handler
	metricsReg *prometheus.Registry
	httpServer *http.Server
	logger     zerolog.Logger
}

// New builds the full service. Every configured network gets a read-only
// node client for the frontend and a simulator handed over to the engine;
// any failure to connect is fatal so the process never starts partially.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	registry := chains.NewRegistry(cfg.Networks)

	nodes := make(map[uint64]*chains.Client, registry.Len())
	sims := make(map[uint64]simulator.Simulator, registry.Len())
	for _, network := range cfg.Networks {
		node, err := chains.Dial(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to chain %d: %w", network.ChainID, err)
		}
		nodes[network.ChainID] = node

		sim, err := simulator.Dial(ctx, network.ChainID, network.RPCURL, logger)
		if err != nil {
			node.Close()
			return nil, fmt.Errorf("failed to create simulator for chain %d: %w", network.ChainID, err)
		}
		sims[network.ChainID] = sim

		logger.Info().
			Uint64("chainId", network.ChainID).
			Str("symbol", network.Symbol).
			Msg("network configured")
	}

	metricsReg := prometheus.NewRegistry()
	m := metrics.New(metricsReg)

	eng := engine.New(registry, sims, cfg.QueueSize, m, logger)

	readers := make(map[uint64]api.BlockReader, len(nodes))
	for chainID, node := range nodes {
		readers[chainID] = node
	}

	handler, err := api.NewHandler(registry, readers, eng, cfg.GetRequestTimeoutDuration(), cfg.BlockCacheSize, m, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:        cfg,
		registry:   registry,
		nodes:      nodes,
		engine:     eng,
		handler:    handler,
		metricsReg: metricsReg,
		logger:     logger,
	}, nil
}

// Start starts the engine and the HTTP listener
func (s *Server) Start() error {
	s.engine.Start()

	mux := http.NewServeMux()
	mux.Handle("/simulate/batch", s.handler)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metricsReg, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server: new jobs are refused first, the
// in-flight job finishes, then the listener and network connections close
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server...")

	engineErr := s.engine.Stop(ctx)

	var httpErr error
	if s.httpServer != nil {
		httpErr = s.httpServer.Shutdown(ctx)
	}

	for _, node := range s.nodes {
		node.Close()
	}

	if engineErr != nil {
		return fmt.Errorf("engine shutdown error: %w", engineErr)
	}
	if httpErr != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", httpErr)
	}

	s.logger.Info().Msg("server stopped")
	return nil
}
