package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdecode/internal/adapters/registry"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// MockRegistryLoader is a mock implementation of RegistryLoader
type MockRegistryLoader struct {
	mock.Mock
}

func (m *MockRegistryLoader) Load(ctx context.Context) ([]domain.Entry, error) {
	args := m.Called(ctx)
	if entries := args.Get(0); entries != nil {
		return entries.([]domain.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistryLoader) Paths() []string {
	args := m.Called()
	if paths := args.Get(0); paths != nil {
		return paths.([]string)
	}
	return nil
}

// MockRegistryReloader is a mock implementation of RegistryReloader
type MockRegistryReloader struct {
	mock.Mock
}

func (m *MockRegistryReloader) Reload(ctx context.Context) (usecase.SelectorIndex, error) {
	args := m.Called(ctx)
	if idx := args.Get(0); idx != nil {
		return idx.(usecase.SelectorIndex), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRegistryWatcher is a mock implementation of RegistryWatcher
type MockRegistryWatcher struct {
	mock.Mock
}

func (m *MockRegistryWatcher) Watch(ctx context.Context, paths []string, onChange func()) error {
	args := m.Called(ctx, paths, onChange)
	return args.Error(0)
}

// MockRegistryVerifier is a mock implementation of RegistryVerifier
type MockRegistryVerifier struct {
	mock.Mock
}

func (m *MockRegistryVerifier) Verify(defs []*domain.Definition) []domain.Issue {
	args := m.Called(defs)
	if issues := args.Get(0); issues != nil {
		return issues.([]domain.Issue)
	}
	return nil
}

func collisionStore(t *testing.T) *registry.Store {
	burn := entry(t, "Burnable", domain.KindFunction, "burn", domain.Param{Name: "amount", Type: "uint256"})
	collate := entry(t, "StorageProxy", domain.KindFunction, "collate_propagate_storage", domain.Param{Type: "bytes16"})
	owner := entry(t, "StorageProxy", domain.KindError, "OwnableCallerNotTheOwner", domain.Param{Name: "callerAddress", Type: "address"})
	transfer := entry(t, "Burnable", domain.KindEvent, "Transfer",
		domain.Param{Name: "from", Type: "address", Indexed: true},
		domain.Param{Name: "to", Type: "address", Indexed: true},
		domain.Param{Name: "amount", Type: "uint256"},
	)
	entries := []domain.Entry{burn, collate, owner, transfer}
	registry.SortEntries(entries)
	return registry.NewStoreFromIndex(registry.Build(entries))
}

func TestListEntries_Run(t *testing.T) {
	tests := []struct {
		name       string
		params     usecase.ListEntriesParams
		wantNames  []string
		wantByKind map[domain.Kind]int
	}{
		{
			name:      "everything",
			params:    usecase.ListEntriesParams{},
			wantNames: []string{"OwnableCallerNotTheOwner", "Transfer", "burn", "collate_propagate_storage"},
			wantByKind: map[domain.Kind]int{
				domain.KindError:    1,
				domain.KindEvent:    1,
				domain.KindFunction: 2,
			},
		},
		{
			name:       "by kind",
			params:     usecase.ListEntriesParams{Kind: domain.KindFunction},
			wantNames:  []string{"burn", "collate_propagate_storage"},
			wantByKind: map[domain.Kind]int{domain.KindFunction: 2},
		},
		{
			name:       "by namespace",
			params:     usecase.ListEntriesParams{Namespace: "StorageProxy"},
			wantNames:  []string{"OwnableCallerNotTheOwner", "collate_propagate_storage"},
			wantByKind: map[domain.Kind]int{domain.KindError: 1, domain.KindFunction: 1},
		},
		{
			name:       "ambiguous only",
			params:     usecase.ListEntriesParams{Ambiguous: true},
			wantNames:  []string{"burn", "collate_propagate_storage"},
			wantByKind: map[domain.Kind]int{domain.KindFunction: 2},
		},
		{
			name:       "unknown namespace",
			params:     usecase.ListEntriesParams{Namespace: "Nope"},
			wantNames:  nil,
			wantByKind: map[domain.Kind]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewListEntries(collisionStore(t), usecase.NopProgress{})
			result, err := uc.Run(context.Background(), tt.params)
			require.NoError(t, err)

			var names []string
			for _, d := range result.Definitions {
				names = append(names, d.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantByKind, result.Summary.ByKind)
			assert.Equal(t, len(tt.wantNames), result.Summary.Total)
			assert.Equal(t, 1, result.Summary.Ambiguous)
			assert.Equal(t, []string{"Burnable", "StorageProxy"}, result.Namespaces)
		})
	}
}

func TestSearchEntries_Run(t *testing.T) {
	uc := usecase.NewSearchEntries(collisionStore(t), registry.NewFuzzySearcher())
	ctx := context.Background()

	t.Run("selector prefix", func(t *testing.T) {
		defs, err := uc.Run(ctx, usecase.SearchEntriesParams{Query: "0x42966c68"})
		require.NoError(t, err)
		require.Len(t, defs, 2)
	})

	t.Run("fuzzy name", func(t *testing.T) {
		defs, err := uc.Run(ctx, usecase.SearchEntriesParams{Query: "collate"})
		require.NoError(t, err)
		require.NotEmpty(t, defs)
		assert.Equal(t, "collate_propagate_storage", defs[0].Name)
	})

	t.Run("kind filter and limit", func(t *testing.T) {
		defs, err := uc.Run(ctx, usecase.SearchEntriesParams{Kind: domain.KindFunction, Limit: 1})
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, domain.KindFunction, defs[0].Kind)
	})
}

func TestVerifyRegistry_Run(t *testing.T) {
	store := collisionStore(t)

	t.Run("clean registry", func(t *testing.T) {
		uc := usecase.NewVerifyRegistry(store, registry.NewVerifier(), usecase.NopProgress{})
		result, err := uc.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, 4, result.Checked)
		require.Len(t, result.Ambiguous, 1)
		assert.Equal(t, "0x42966c68", result.Ambiguous[0].Selector.Hex())
	})

	t.Run("issues fail verification", func(t *testing.T) {
		verifier := new(MockRegistryVerifier)
		verifier.On("Verify", mock.Anything).Return([]domain.Issue{
			{Signature: "burn(uint256)", Problem: "selector mismatch"},
		}).Once()

		uc := usecase.NewVerifyRegistry(store, verifier, usecase.NopProgress{})
		result, err := uc.Run(context.Background())
		require.NoError(t, err)
		assert.False(t, result.OK())
		require.Len(t, result.Issues, 1)
		verifier.AssertExpectations(t)
	})
}

func TestWatchRegistry_Run(t *testing.T) {
	t.Run("bundled registry cannot be watched", func(t *testing.T) {
		loader := new(MockRegistryLoader)
		loader.On("Paths").Return(nil)

		uc := usecase.NewWatchRegistry(loader, new(MockRegistryReloader), new(MockRegistryWatcher), testLogger())
		err := uc.Run(context.Background(), nil)
		assert.ErrorContains(t, err, "bundled registry")
	})

	t.Run("reloads on change", func(t *testing.T) {
		paths := []string{"/tmp/registry.json"}
		loader := new(MockRegistryLoader)
		loader.On("Paths").Return(paths)

		reloader := new(MockRegistryReloader)
		reloader.On("Reload", mock.Anything).Return(collisionStore(t).Snapshot(), nil).Once()
		reloader.On("Reload", mock.Anything).Return(nil, errors.New("parse registry.json: unexpected EOF")).Once()

		watcher := new(MockRegistryWatcher)
		watcher.On("Watch", mock.Anything, paths, mock.Anything).Run(func(args mock.Arguments) {
			onChange := args.Get(2).(func())
			onChange()
			onChange()
		}).Return(nil)

		var events []usecase.ReloadEvent
		uc := usecase.NewWatchRegistry(loader, reloader, watcher, testLogger())
		err := uc.Run(context.Background(), func(ev usecase.ReloadEvent) {
			events = append(events, ev)
		})
		require.NoError(t, err)

		require.Len(t, events, 2)
		assert.NoError(t, events[0].Err)
		assert.Equal(t, 4, events[0].Definitions)
		assert.Equal(t, 2, events[0].Namespaces)
		assert.EqualError(t, events[1].Err, "parse registry.json: unexpected EOF")

		reloader.AssertExpectations(t)
		watcher.AssertExpectations(t)
	})
}
