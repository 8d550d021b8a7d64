package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher calls OnChange after the config file is written, created or
// replaced. Bursts of events within Debounce collapse into one call.
type ConfigWatcher struct {
	Path     string
	Debounce time.Duration
	OnChange func()
	Logger   *slog.Logger
}

// Run watches until ctx is cancelled. The parent directory is watched so
// that editors which replace the file by rename are still seen.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	path := filepath.Clean(w.Path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	w.Logger.Info("config watcher started", "path", path)
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("config watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.Logger.Debug("config file changed", "op", event.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			w.OnChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error("config watcher error", "error", err)
		}
	}
}
