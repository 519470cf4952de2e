package runtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittonas/pkg/controlplane/models"
	"github.com/marmos91/dittonas/pkg/controlplane/store"
)

// fakeServer blocks in Start until ctx is done, or fails immediately when
// startErr is set.
type fakeServer struct {
	port     int
	startErr error
	started  atomic.Bool
	stops    atomic.Int32
}

func (f *fakeServer) Start(ctx context.Context) error {
	f.started.Store(true)
	if f.startErr != nil {
		return f.startErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeServer) Stop(context.Context) error {
	f.stops.Add(1)
	return nil
}

func (f *fakeServer) Port() int { return f.port }

func TestRuntime_ServeUntilCancelled(t *testing.T) {
	rt := New(time.Second)
	api := &fakeServer{port: 8080}
	metricsSrv := &fakeServer{port: 9090}
	require.NoError(t, rt.AddServer("api", api))
	require.NoError(t, rt.AddServer("metrics", metricsSrv))
	assert.Equal(t, []string{"api", "metrics"}, rt.Servers())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Serve(ctx) }()

	require.Eventually(t, func() bool {
		return api.started.Load() && metricsSrv.started.Load()
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	assert.Equal(t, int32(1), api.stops.Load())
	assert.Equal(t, int32(1), metricsSrv.stops.Load())
}

func TestRuntime_ServerFailureStopsOthers(t *testing.T) {
	rt := New(time.Second)
	healthy := &fakeServer{port: 8080}
	broken := &fakeServer{port: 9090, startErr: errors.New("address already in use")}
	require.NoError(t, rt.AddServer("api", healthy))
	require.NoError(t, rt.AddServer("metrics", broken))

	err := rt.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics server")
	assert.Contains(t, err.Error(), "address already in use")
	assert.Equal(t, int32(1), healthy.stops.Load())
}

func TestRuntime_Registration(t *testing.T) {
	rt := New(0)
	assert.Equal(t, DefaultShutdownTimeout, rt.shutdownTimeout)

	require.NoError(t, rt.AddServer("metrics", nil))
	assert.Empty(t, rt.Servers())

	require.NoError(t, rt.AddServer("api", &fakeServer{}))
	assert.Error(t, rt.AddServer("api", &fakeServer{}))
}

func TestRuntime_ServeWithoutServers(t *testing.T) {
	err := New(0).Serve(context.Background())
	assert.EqualError(t, err, "no servers registered")
}

func TestRuntime_ServeOnce(t *testing.T) {
	rt := New(time.Second)
	require.NoError(t, rt.AddServer("api", &fakeServer{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rt.Serve(ctx))

	assert.Error(t, rt.Serve(context.Background()))
	assert.Error(t, rt.AddServer("metrics", &fakeServer{}))
}

func newSettingsStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInventoryWatcher_DetectsImport(t *testing.T) {
	ctx := context.Background()
	s := newSettingsStore(t)

	var mu sync.Mutex
	var seen []InventoryStatus
	w := NewInventoryWatcher(s, 20*time.Millisecond, func(st InventoryStatus) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	require.NoError(t, w.LoadInitial(ctx))
	assert.Equal(t, InventoryStatus{}, w.Current())

	w.Start(ctx)
	defer w.Stop()

	require.NoError(t, s.SetSetting(ctx, models.SettingInventorySource, "/srv/inventory.yaml"))
	require.NoError(t, s.SetSetting(ctx, models.SettingInventoryImportedAt, "2026-01-02T03:04:05Z"))

	want := InventoryStatus{Source: "/srv/inventory.yaml", ImportedAt: "2026-01-02T03:04:05Z"}
	require.Eventually(t, func() bool {
		return w.Current() == want
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInventoryWatcher_StopWithoutStart(t *testing.T) {
	w := NewInventoryWatcher(newSettingsStore(t), 0, nil)
	assert.Equal(t, DefaultPollInterval, w.pollInterval)

	done := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a watcher that never started")
	}
}

func TestRuntime_StartsWatcher(t *testing.T) {
	s := newSettingsStore(t)
	require.NoError(t, s.SetSetting(context.Background(), models.SettingInventorySource, "/srv/a.yaml"))

	rt := New(time.Second)
	w := NewInventoryWatcher(s, time.Hour, nil)
	rt.SetInventoryWatcher(w)
	require.NoError(t, rt.AddServer("api", &fakeServer{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rt.Serve(ctx))

	assert.Equal(t, "/srv/a.yaml", w.Current().Source)
}
