package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/status-im/token-supply/config"
	"github.com/status-im/token-supply/monitor"
	"github.com/status-im/token-supply/supply"
)

// ISupplyAggregator computes a circulating supply snapshot
//
//go:generate mockgen -destination=mocks/aggregator.go . ISupplyAggregator
type ISupplyAggregator interface {
	Aggregate(ctx context.Context, source, token string, treasuries []string) (*supply.Result, error)
}

// IPresetMonitor keeps recent preset results up to date in the background
type IPresetMonitor interface {
	Snapshot(name string) (monitor.Snapshot, bool)
	Refresh()
}

// IHealthChecker is implemented by background services reported on /health
type IHealthChecker interface {
	Healthy() bool
}

type Server struct {
	cfg        *config.Config
	aggregator ISupplyAggregator
	monitor    IPresetMonitor
	checks     map[string]IHealthChecker
	logger     *zap.Logger
	server     *http.Server
	listener   net.Listener
}

func New(cfg *config.Config, aggregator ISupplyAggregator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:        cfg,
		aggregator: aggregator,
		checks:     make(map[string]IHealthChecker),
		logger:     logger.Named("api"),
	}
}

// SetPresetMonitor serves preset results from m's snapshots. Call before Start.
func (s *Server) SetPresetMonitor(m IPresetMonitor) {
	s.monitor = m
}

// AddHealthCheck reports checker under name on /health. Call before Start.
func (s *Server) AddHealthCheck(name string, checker IHealthChecker) {
	s.checks[name] = checker
}

// Handler returns the router with every endpoint and middleware attached
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestLogger)

	router.HandleFunc("/api/v1/tokens/{token}/circulating", s.handleCirculating).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/presets", s.handlePresets).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/presets/refresh", s.handlePresetsRefresh).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/presets/{name}/circulating", s.handlePresetCirculating).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+s.cfg.Server.Port)
	if err != nil {
		return err
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.logger.Info("server starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("metrics", "/metrics"))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the server listens on, empty before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
