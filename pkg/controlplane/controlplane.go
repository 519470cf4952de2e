// Package controlplane assembles the DittoNAS server.
//
// The control plane owns:
//   - the persistent store (users, settings and the imported inventory)
//   - the REST API server
//   - the runtime that runs the servers and watches for inventory imports
//
// Usage:
//
//	cp, err := controlplane.New(ctx, &controlplane.Options{
//	    Database: &cfg.Database,
//	    API:      &cfg.ControlPlane,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cp.Close()
//
//	err = cp.Runtime().Serve(ctx)
package controlplane

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/api"
	"github.com/marmos91/dittonas/pkg/controlplane/runtime"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// ControlPlane ties the store, the API server and the runtime together.
type ControlPlane struct {
	store     *store.GORMStore
	runtime   *runtime.Runtime
	apiServer *api.Server
}

// Options configures the ControlPlane.
type Options struct {
	// Database configures the control plane database. Required.
	Database *store.Config

	// API configures the REST API. Required.
	API *api.APIConfig

	// ShutdownTimeout bounds how long servers get to stop.
	// Default: runtime.DefaultShutdownTimeout
	ShutdownTimeout time.Duration

	// InventoryPollInterval is how often the store is checked for a newly
	// imported inventory.
	// Default: runtime.DefaultPollInterval
	InventoryPollInterval time.Duration

	// OnInventoryChange is called after a new import is detected.
	OnInventoryChange func(runtime.InventoryStatus)
}

// New opens the store and builds the API server and the runtime. The API
// server is registered as "api"; further servers can be added through
// Runtime().AddServer before serving.
//
// Call Close() when done to release the database.
func New(ctx context.Context, opts *Options) (*ControlPlane, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}
	if opts.Database == nil {
		return nil, fmt.Errorf("database configuration is required")
	}
	if opts.API == nil {
		return nil, fmt.Errorf("API configuration is required")
	}

	cpStore, err := store.New(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	apiServer, err := api.NewServer(*opts.API, cpStore)
	if err != nil {
		_ = cpStore.Close()
		return nil, fmt.Errorf("failed to create API server: %w", err)
	}

	rt := runtime.New(opts.ShutdownTimeout)
	if err := rt.AddServer("api", apiServer); err != nil {
		_ = cpStore.Close()
		return nil, err
	}

	poll := opts.InventoryPollInterval
	if poll <= 0 {
		poll = runtime.DefaultPollInterval
	}
	rt.SetInventoryWatcher(runtime.NewInventoryWatcher(cpStore, poll, opts.OnInventoryChange))

	logger.InfoCtx(ctx, "Control plane initialized", "database", opts.Database.Type, "api_port", apiServer.Port())

	return &ControlPlane{
		store:     cpStore,
		runtime:   rt,
		apiServer: apiServer,
	}, nil
}

// Store returns the persistent store.
func (cp *ControlPlane) Store() *store.GORMStore {
	return cp.store
}

// Runtime returns the runtime that serves the registered servers.
func (cp *ControlPlane) Runtime() *runtime.Runtime {
	return cp.runtime
}

// APIServer returns the REST API server.
func (cp *ControlPlane) APIServer() *api.Server {
	return cp.apiServer
}

// EnsureAdminUser creates the admin user if no admin exists yet.
// Returns the generated password (empty string if an admin already exists).
func (cp *ControlPlane) EnsureAdminUser(ctx context.Context, username, email string) (string, error) {
	return cp.store.EnsureAdminUser(ctx, username, email)
}

// Close releases the database.
func (cp *ControlPlane) Close() error {
	return cp.store.Close()
}
