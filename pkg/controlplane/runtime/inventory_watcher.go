package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/marmos91/dittonas/internal/logger"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// DefaultPollInterval is how often the watcher checks for a new import.
const DefaultPollInterval = 10 * time.Second

// InventoryStatus identifies one inventory import.
type InventoryStatus struct {
	Source     string
	ImportedAt string
}

// InventoryWatcher polls the settings written by `dnas import` so a running
// server notices when another process replaced the inventory. The API reads
// the database on every request; the watcher only reports the change and
// runs the optional callback.
type InventoryWatcher struct {
	mu       sync.RWMutex
	store    store.SettingsStore
	current  InventoryStatus
	onChange func(InventoryStatus)

	pollInterval time.Duration
	stopCh       chan struct{}
	stopped      chan struct{}
	running      bool
	stopOnce     sync.Once
}

// NewInventoryWatcher returns a stopped watcher. A zero pollInterval selects
// DefaultPollInterval. onChange may be nil.
func NewInventoryWatcher(s store.SettingsStore, pollInterval time.Duration, onChange func(InventoryStatus)) *InventoryWatcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &InventoryWatcher{
		store:        s,
		onChange:     onChange,
		pollInterval: pollInterval,
		stopCh:       make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

// LoadInitial reads the current import status without reporting a change.
func (w *InventoryWatcher) LoadInitial(ctx context.Context) error {
	status, err := w.read(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.current = status
	w.mu.Unlock()

	if status.ImportedAt == "" {
		logger.Warn("No inventory imported yet, resource lists will be empty")
	} else {
		logger.Info("Inventory loaded", "source", status.Source, "imported_at", status.ImportedAt)
	}
	return nil
}

// Start begins polling until Stop is called or ctx is cancelled.
func (w *InventoryWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.run(ctx)
}

func (w *InventoryWatcher) run(ctx context.Context) {
	defer close(w.stopped)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Debug("Inventory watcher started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Stop halts polling and waits for the goroutine to exit. It is a no-op on
// a watcher that was never started.
func (w *InventoryWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})

	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()
	if running {
		<-w.stopped
	}
}

// Current returns the last observed import status.
func (w *InventoryWatcher) Current() InventoryStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *InventoryWatcher) poll(ctx context.Context) {
	status, err := w.read(ctx)
	if err != nil {
		logger.Warn("Inventory watcher: failed to read import status", logger.Err(err))
		return
	}

	w.mu.Lock()
	changed := status != w.current
	w.current = status
	w.mu.Unlock()

	if !changed {
		return
	}

	logger.Info("Inventory replaced", "source", status.Source, "imported_at", status.ImportedAt)
	if w.onChange != nil {
		w.onChange(status)
	}
}

func (w *InventoryWatcher) read(ctx context.Context) (InventoryStatus, error) {
	source, err := w.store.GetSetting(ctx, models.SettingInventorySource)
	if err != nil {
		return InventoryStatus{}, err
	}
	importedAt, err := w.store.GetSetting(ctx, models.SettingInventoryImportedAt)
	if err != nil {
		return InventoryStatus{}, err
	}
	return InventoryStatus{Source: source, ImportedAt: importedAt}, nil
}
