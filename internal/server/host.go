// Package server hosts the simulation's long-running services, the job
// scheduler and its supporting stores, and ties their lifetimes to
// process signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// defaultStopTimeout bounds how long a single service may take to stop.
const defaultStopTimeout = 10 * time.Second

// Service is a long-running component owned by the host. Start blocks
// until the service finishes or ctx is cancelled; Stop asks it to finish.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// FuncService adapts a start/stop function pair into a Service. A nil
// StopFn is a no-op.
type FuncService struct {
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context) error
}

// Start calls the underlying start function.
func (f *FuncService) Start(ctx context.Context) error { return f.StartFn(ctx) }

// Stop calls the underlying stop function when one is set.
func (f *FuncService) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// Host runs a set of named services. Services start in registration order
// and stop in reverse order, each under the stop timeout. The first
// service failure tears the whole host down.
type Host struct {
	logger      *zap.Logger
	stopTimeout time.Duration

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// Option customizes a Host.
type Option func(*Host)

// WithStopTimeout overrides the per-service stop timeout.
//
// Precondition: d must be positive.
func WithStopTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.stopTimeout = d
	}
}

// NewHost creates a Host with no services.
//
// Precondition: logger must be non-nil.
func NewHost(logger *zap.Logger, opts ...Option) *Host {
	h := &Host{
		logger:      logger,
		stopTimeout: defaultStopTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add registers a named service. Services start in the order they are
// added.
//
// Precondition: name must be non-empty; svc must be non-nil. Add must not
// be called after Run.
func (h *Host) Add(name string, svc Service) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.services = append(h.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until a termination signal arrives
// (SIGINT or SIGTERM), a service fails, or ctx is cancelled. It then stops
// the services in reverse order and returns the failure that triggered
// shutdown, if any.
//
// Postcondition: every service's Stop has returned or timed out.
func (h *Host) Run(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.mu.Lock()
	services := append([]namedService(nil), h.services...)
	h.mu.Unlock()

	errCh := make(chan error, len(services))
	for _, ns := range services {
		ns := ns
		go func() {
			h.logger.Info("service starting", zap.String("service", ns.name))
			if err := ns.service.Start(ctx); err != nil {
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	h.logger.Info("host running", zap.Int("services", len(services)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		h.logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		h.logger.Error("service failed, shutting down", zap.Error(runErr))
	case <-ctx.Done():
		h.logger.Info("context cancelled, shutting down")
	}
	cancel()

	h.stopAll(services)
	h.logger.Info("host stopped", zap.Duration("uptime", time.Since(start)))
	return runErr
}

// stopAll stops services in reverse registration order, each under its
// own timeout so one stuck service cannot block the rest.
func (h *Host) stopAll(services []namedService) {
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		stopCtx, cancel := context.WithTimeout(context.Background(), h.stopTimeout)
		stopStart := time.Now()
		if err := ns.service.Stop(stopCtx); err != nil {
			h.logger.Warn("service stop failed",
				zap.String("service", ns.name),
				zap.Error(err),
			)
		} else {
			h.logger.Info("service stopped",
				zap.String("service", ns.name),
				zap.Duration("elapsed", time.Since(stopStart)),
			)
		}
		cancel()
	}
}
