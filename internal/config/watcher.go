package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 250 * time.Millisecond

// WatchFile watches config.yaml and calls Reload after it changes. Reload
// errors are passed to onError (if set) and watching continues. It blocks
// until ctx is cancelled.
func (m *ConfigManager) WatchFile(ctx context.Context, onError func(error)) error {
	path := m.Path()
	if path == "" {
		return ErrNotInitialized
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch placed on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	m.logger.Debug("watching config", "path", path)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			trigger = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("config watcher error", "error", err)

		case <-trigger:
			trigger = nil
			m.logger.Info("config changed, reloading", "path", path)
			if err := m.Reload(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
