package usecase

import (
	"context"
	"fmt"
	"log/slog"
)

// ReloadEvent reports the outcome of one reload triggered by a file change
type ReloadEvent struct {
	Definitions int
	Namespaces  int
	Err         error
}

// WatchRegistry reloads the registry whenever its files change
type WatchRegistry struct {
	loader   RegistryLoader
	reloader RegistryReloader
	watcher  RegistryWatcher
	log      *slog.Logger
}

// NewWatchRegistry creates a new WatchRegistry use case
func NewWatchRegistry(loader RegistryLoader, reloader RegistryReloader, watcher RegistryWatcher, log *slog.Logger) *WatchRegistry {
	return &WatchRegistry{
		loader:   loader,
		reloader: reloader,
		watcher:  watcher,
		log:      log.With("component", "WatchRegistry"),
	}
}

// Run blocks until ctx is cancelled, calling onReload after every reload
// attempt. A failed reload keeps the previous index in place.
func (uc *WatchRegistry) Run(ctx context.Context, onReload func(ReloadEvent)) error {
	paths := uc.loader.Paths()
	if len(paths) == 0 {
		return fmt.Errorf("the bundled registry cannot be watched, pass --registry")
	}

	return uc.watcher.Watch(ctx, paths, func() {
		ev := uc.Reload(ctx)
		if ev.Err != nil {
			uc.log.Warn("registry reload failed", "error", ev.Err)
		}
		if onReload != nil {
			onReload(ev)
		}
	})
}

// Reload rebuilds the index once
func (uc *WatchRegistry) Reload(ctx context.Context) ReloadEvent {
	idx, err := uc.reloader.Reload(ctx)
	if err != nil {
		return ReloadEvent{Err: err}
	}
	return ReloadEvent{
		Definitions: len(idx.Definitions()),
		Namespaces:  len(idx.Namespaces()),
	}
}
