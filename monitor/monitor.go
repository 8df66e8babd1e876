// Package monitor periodically aggregates configured presets and publishes
// their supply as Prometheus gauges.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/status-im/token-supply/config"
	"github.com/status-im/token-supply/events"
	"github.com/status-im/token-supply/metrics"
	"github.com/status-im/token-supply/scheduler"
	"github.com/status-im/token-supply/supply"
)

// ISupplyAggregator computes a circulating supply snapshot
type ISupplyAggregator interface {
	Aggregate(ctx context.Context, source, token string, treasuries []string) (*supply.Result, error)
}

// Snapshot is the latest aggregation attempt for one preset
type Snapshot struct {
	Preset      config.Preset
	Result      *supply.Result // last successful result, kept across failed attempts
	Err         error          // error of the latest attempt, nil on success
	UpdatedAt   time.Time
	LastSuccess time.Time
}

type Monitor struct {
	presets       []config.Preset
	aggregator    ISupplyAggregator
	metricsWriter *metrics.MetricsWriter
	scheduler     *scheduler.Scheduler
	updates       *events.SubscriptionManager[string]
	logger        *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]Snapshot
	rounds    int
}

// New creates a monitor aggregating presets every cfg.Interval
func New(cfg config.MonitorConfig, presets []config.Preset, aggregator ISupplyAggregator, metricsWriter *metrics.MetricsWriter, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("monitor")
	if cfg.Interval <= 0 {
		cfg.Interval = config.DefaultMonitorConfig().Interval
	}

	m := &Monitor{
		presets:       presets,
		aggregator:    aggregator,
		metricsWriter: metricsWriter,
		updates:       events.NewSubscriptionManager[string](len(presets) + 1),
		logger:        logger,
		snapshots:     make(map[string]Snapshot, len(presets)),
	}
	m.scheduler = scheduler.New(cfg.Interval, m.refresh, logger)
	return m
}

func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("monitor starting", zap.Int("presets", len(m.presets)))
	m.scheduler.Start(ctx, true)
	return nil
}

func (m *Monitor) Stop() {
	m.scheduler.Stop()
}

// Refresh schedules an immediate round outside the regular interval
func (m *Monitor) Refresh() {
	m.scheduler.Trigger()
}

// SubscribeOnUpdate notifies the name of every preset after each attempt
func (m *Monitor) SubscribeOnUpdate() events.ISubscription[string] {
	return m.updates.Subscribe()
}

// refresh aggregates every preset in order. Presets are independent: one
// failing does not stop the round.
func (m *Monitor) refresh(ctx context.Context) {
	start := time.Now()
	failed := 0

	for _, preset := range m.presets {
		if ctx.Err() != nil {
			return
		}
		if !m.refreshPreset(ctx, preset) {
			failed++
		}
	}

	m.mu.Lock()
	m.rounds++
	m.mu.Unlock()

	m.logger.Info("monitor round completed",
		zap.Int("presets", len(m.presets)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
}

func (m *Monitor) refreshPreset(ctx context.Context, preset config.Preset) bool {
	result, err := m.aggregator.Aggregate(ctx, preset.Source, preset.Token, preset.Treasuries)
	now := time.Now()

	m.mu.Lock()
	snapshot := m.snapshots[preset.Name]
	snapshot.Preset = preset
	snapshot.UpdatedAt = now
	snapshot.Err = err
	if err == nil {
		snapshot.Result = result
		snapshot.LastSuccess = now
	}
	m.snapshots[preset.Name] = snapshot
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("preset aggregation failed",
			zap.String("preset", preset.Name),
			zap.String("token", preset.Token),
			zap.Error(err))
	} else {
		m.metricsWriter.RecordSupply(result.Token, result.Source, result.Decimals,
			result.TotalSupply, result.Circulating, result.ConsumerBalances.Len())
		m.logger.Info("preset aggregated",
			zap.String("preset", preset.Name),
			zap.String("circulating", result.Circulating.String()))
	}

	m.updates.Emit(ctx, preset.Name)
	return err == nil
}

// Snapshot returns the latest state of the named preset
func (m *Monitor) Snapshot(name string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[name]
	return snapshot, ok
}

// Healthy reports whether a round has completed and every preset has
// succeeded at least once
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.rounds == 0 {
		return false
	}
	for _, preset := range m.presets {
		if m.snapshots[preset.Name].LastSuccess.IsZero() {
			return false
		}
	}
	return true
}
