package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/domain/config"
)

// MockLoader is a mock implementation of RegistryLoader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context) ([]domain.Entry, error) {
	args := m.Called(ctx)
	if entries := args.Get(0); entries != nil {
		return entries.([]domain.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoader) Paths() []string {
	return nil
}

func TestStore_Reload(t *testing.T) {
	first, err := LoadFile("testdata/guardian.yaml")
	require.NoError(t, err)
	second, err := LoadFile("testdata/collision.json")
	require.NoError(t, err)

	loader := new(MockLoader)
	loader.On("Load", mock.Anything).Return(first, nil).Once()
	loader.On("Load", mock.Anything).Return(second, nil).Once()
	loader.On("Load", mock.Anything).Return(nil, errors.New("disk on fire")).Once()

	store, err := NewStore(loader, testLogger())
	require.NoError(t, err)

	before := store.Snapshot()
	assert.Equal(t, []string{"LSP11BasicSocialRecovery"}, before.Namespaces())

	_, err = store.Reload(context.Background())
	require.NoError(t, err)
	after := store.Snapshot()
	assert.Equal(t, []string{"Burnable", "StorageProxy", "StorageProxyInit"}, after.Namespaces())

	// earlier snapshots are untouched by the swap
	assert.Equal(t, []string{"LSP11BasicSocialRecovery"}, before.Namespaces())

	_, err = store.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, after, store.Snapshot())

	loader.AssertExpectations(t)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	store, err := NewStore(NewLoader(&config.RuntimeConfig{}, testLogger()), testLogger())
	require.NoError(t, err)
	sel := mustSelector(t, "0x5560e16d")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got := store.Snapshot().Lookup(domain.KindError, sel)
				assert.Equal(t, domain.LookupUnique, got.Status)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := store.Reload(context.Background())
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	w := NewWatcher(testLogger())
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, []string{path}, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// keep touching the file until the watcher has registered its directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644)
		_ = os.WriteFile(path, []byte(`{"A":{}}`), 0644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_NoPaths(t *testing.T) {
	err := NewWatcher(testLogger()).Watch(context.Background(), nil, func() {})
	assert.Error(t, err)
}
