package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/status-im/token-supply/events"
	"github.com/status-im/token-supply/monitor"
)

// ISnapshotSource publishes preset updates and their latest state
type ISnapshotSource interface {
	SubscribeOnUpdate() events.ISubscription[string]
	Snapshot(name string) (monitor.Snapshot, bool)
}

// SnapshotLogger logs every preset update published by the monitor
type SnapshotLogger struct {
	source ISnapshotSource
	logger *zap.Logger

	mu           sync.Mutex
	subscription events.ISubscription[string]
}

func NewSnapshotLogger(source ISnapshotSource, logger *zap.Logger) *SnapshotLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLogger{
		source: source,
		logger: logger.Named("snapshots"),
	}
}

// Start subscribes to updates. Register it before the monitor so the first
// round is not missed.
func (l *SnapshotLogger) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscription = l.source.SubscribeOnUpdate().Watch(ctx, l.onUpdate)
	return nil
}

func (l *SnapshotLogger) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.subscription != nil {
		l.subscription.Cancel()
		l.subscription = nil
	}
}

func (l *SnapshotLogger) onUpdate(name string) {
	snapshot, ok := l.source.Snapshot(name)
	if !ok {
		return
	}

	if snapshot.Err != nil {
		l.logger.Warn("preset snapshot stale",
			zap.String("preset", name),
			zap.Time("last_success", snapshot.LastSuccess),
			zap.Error(snapshot.Err))
		return
	}

	l.logger.Info("preset snapshot updated",
		zap.String("preset", name),
		zap.String("token", snapshot.Result.Token),
		zap.String("timestamp", snapshot.Result.Timestamp),
		zap.String("circulating", snapshot.Result.Circulating.String()))
}
