package core

import (
	"go.uber.org/zap"

	"github.com/status-im/token-supply/api"
	"github.com/status-im/token-supply/config"
	"github.com/status-im/token-supply/metrics"
	"github.com/status-im/token-supply/mirror"
	"github.com/status-im/token-supply/monitor"
	"github.com/status-im/token-supply/supply"
)

// Application holds the components wired for serve mode
type Application struct {
	Registry   *Registry
	Aggregator *supply.Aggregator
	Server     *api.Server
	Monitor    *monitor.Monitor // nil when the monitor is disabled
}

// NewAggregator wires a mirror client and aggregator reporting metrics under serviceName
func NewAggregator(cfg *config.Config, serviceName string, logger *zap.Logger) *supply.Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	metricsWriter := metrics.NewMetricsWriter(serviceName)
	logger = logger.With(zap.String("service", metricsWriter.GetServiceName()))

	limiter := mirror.NewHostRateLimiter(cfg.Mirror.RateLimitPerMinute, cfg.Mirror.RateLimitBurst)
	var limiterManager mirror.IRateLimiterManager
	if limiter != nil {
		limiterManager = limiter
	}

	client := mirror.NewClient(cfg.Mirror.ClientOptions(), metricsWriter, limiterManager, logger)

	return supply.NewAggregator(client,
		supply.WithLogger(logger),
		supply.WithMetrics(metricsWriter),
		supply.WithPageObserver(func(page *supply.BalancesPage) {
			metricsWriter.RecordBalanceRecords(len(page.Entries))
		}))
}

// Setup creates and registers all services
func Setup(cfg *config.Config, logger *zap.Logger) *Application {
	registry := NewRegistry(logger)

	app := &Application{
		Registry:   registry,
		Aggregator: NewAggregator(cfg, metrics.ServiceAPI, logger),
	}

	if cfg.Monitor.Enabled {
		app.Monitor = monitor.New(cfg.Monitor, cfg.MonitoredPresets(),
			NewAggregator(cfg, metrics.ServiceMonitor, logger),
			metrics.NewMetricsWriter(metrics.ServiceMonitor),
			logger)
		registry.Register("snapshots", NewSnapshotLogger(app.Monitor, logger))
		registry.Register("monitor", app.Monitor)
	}

	app.Server = api.New(cfg, app.Aggregator, logger)
	if app.Monitor != nil {
		app.Server.SetPresetMonitor(app.Monitor)
		app.Server.AddHealthCheck("monitor", app.Monitor)
	}
	registry.Register("api", app.Server)

	return app
}
