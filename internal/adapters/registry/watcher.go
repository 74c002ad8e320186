package registry

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// DefaultDebounce collapses bursts of editor writes into a single reload
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to registry files through fsnotify
type Watcher struct {
	debounce time.Duration
	log      *slog.Logger
}

// NewWatcher creates a new registry file watcher
func NewWatcher(log *slog.Logger) *Watcher {
	return &Watcher{
		debounce: DefaultDebounce,
		log:      log.With("component", "RegistryWatcher"),
	}
}

// Watch calls onChange after any of paths is written, created or renamed,
// until ctx is cancelled. Parent directories are watched so that files
// replaced by an atomic rename keep being tracked.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func()) error {
	if len(paths) == 0 {
		return fmt.Errorf("no registry files to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start filesystem watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[filepath.Clean(abs)] = struct{}{}
	}

	dirs := lo.Uniq(lo.Map(lo.Keys(targets), func(p string, _ int) string {
		return filepath.Dir(p)
	}))
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.log.Debug("watching registry", "files", len(targets), "dirs", dirs)

	var (
		pending  bool
		debounce = time.NewTimer(0)
	)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, tracked := targets[filepath.Clean(ev.Name)]; !tracked {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !pending {
				debounce.Reset(w.debounce)
				pending = true
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("filesystem watcher error", "error", err)
		case <-debounce.C:
			pending = false
			onChange()
		}
	}
}

var _ usecase.RegistryWatcher = (*Watcher)(nil)
