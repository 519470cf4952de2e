// Package runtime runs the long-lived parts of a dnas server: the REST API,
// the Prometheus endpoint and the inventory watcher.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds the graceful stop of every server.
const DefaultShutdownTimeout = 30 * time.Second

// AuxiliaryServer is an HTTP server managed by the runtime.
type AuxiliaryServer interface {
	// Start serves until ctx is cancelled or the server fails.
	Start(ctx context.Context) error
	// Stop initiates graceful shutdown.
	Stop(ctx context.Context) error
	// Port returns the TCP port the server is listening on.
	Port() int
}

// Runtime owns the server lifecycle. Register servers before calling Serve.
type Runtime struct {
	mu      sync.Mutex
	servers map[string]AuxiliaryServer
	order   []string

	watcher         *InventoryWatcher
	shutdownTimeout time.Duration

	serveOnce sync.Once
	served    bool
}

// New returns an empty runtime. A zero shutdownTimeout selects
// DefaultShutdownTimeout.
func New(shutdownTimeout time.Duration) *Runtime {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Runtime{
		servers:         make(map[string]AuxiliaryServer),
		shutdownTimeout: shutdownTimeout,
	}
}

// AddServer registers a named server. A nil server is ignored so callers can
// pass optional servers (metrics) unconditionally.
func (r *Runtime) AddServer(name string, server AuxiliaryServer) error {
	if server == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.served {
		return fmt.Errorf("cannot add server %q after Serve has been called", name)
	}
	if _, exists := r.servers[name]; exists {
		return fmt.Errorf("server %q already registered", name)
	}
	r.servers[name] = server
	r.order = append(r.order, name)
	logger.Info("Server registered", "server", name, "port", server.Port())
	return nil
}

// SetInventoryWatcher attaches the watcher started alongside the servers.
func (r *Runtime) SetInventoryWatcher(w *InventoryWatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcher = w
}

// Servers returns the registered server names in registration order.
func (r *Runtime) Servers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Serve starts every registered server and blocks until ctx is cancelled or
// one of them fails, then stops the rest. It returns nil on a clean shutdown.
// Serve may only be called once.
func (r *Runtime) Serve(ctx context.Context) error {
	err := errors.New("runtime already served")
	r.serveOnce.Do(func() {
		r.mu.Lock()
		r.served = true
		r.mu.Unlock()
		err = r.serve(ctx)
	})
	return err
}

func (r *Runtime) serve(ctx context.Context) error {
	if len(r.order) == 0 {
		return errors.New("no servers registered")
	}

	logger.Info("Starting DittoNAS runtime", "servers", len(r.order))

	if r.watcher != nil {
		if err := r.watcher.LoadInitial(ctx); err != nil {
			logger.Warn("Failed to read inventory status", logger.Err(err))
		}
		r.watcher.Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range r.order {
		name, server := name, r.servers[name]
		g.Go(func() error {
			if err := server.Start(gctx); err != nil {
				logger.Error("Server failed, initiating shutdown", "server", name, logger.Err(err))
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}

	<-gctx.Done()
	if ctx.Err() != nil {
		logger.Info("Shutdown signal received", "reason", ctx.Err())
	}

	r.shutdown()
	err := g.Wait()

	logger.Info("DittoNAS runtime stopped")
	return err
}

// shutdown stops the watcher and then every server, newest first.
func (r *Runtime) shutdown() {
	if r.watcher != nil {
		logger.Debug("Stopping inventory watcher")
		r.watcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer cancel()

	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		logger.Debug("Stopping server", "server", name)
		if err := r.servers[name].Stop(ctx); err != nil {
			logger.Warn("Server shutdown error", "server", name, logger.Err(err))
		}
	}
}
