package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Interface defines a common interface for all services
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

type registration struct {
	name    string
	service Interface
}

// Registry starts services in registration order and stops them in reverse
type Registry struct {
	services []registration
	started  int
	logger   *zap.Logger
}

// NewRegistry creates a new registry. logger may be nil.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		services: make([]registration, 0),
		logger:   logger,
	}
}

// Register adds a service to the registry
func (sr *Registry) Register(name string, service Interface) {
	sr.services = append(sr.services, registration{name: name, service: service})
}

// StartAll starts all registered services. When one fails, the services
// already started are stopped before the error is returned.
func (sr *Registry) StartAll(ctx context.Context) error {
	for i, reg := range sr.services {
		if err := reg.service.Start(ctx); err != nil {
			sr.started = i
			sr.StopAll()
			return fmt.Errorf("failed to start %s: %w", reg.name, err)
		}
		sr.logger.Info("service started", zap.String("service", reg.name))
	}
	sr.started = len(sr.services)
	return nil
}

// StopAll stops started services in reverse order
func (sr *Registry) StopAll() {
	for i := sr.started - 1; i >= 0; i-- {
		reg := sr.services[i]
		reg.service.Stop()
		sr.logger.Info("service stopped", zap.String("service", reg.name))
	}
	sr.started = 0
}

// Names returns registered service names in start order
func (sr *Registry) Names() []string {
	names := make([]string, 0, len(sr.services))
	for _, reg := range sr.services {
		names = append(names, reg.name)
	}
	return names
}
