package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/modu-ai/settingsgen/pkg/models"
)

func TestWatchFileReloadsOnChange(t *testing.T) {
	root := setupManagerTestDir(t, validYAML)
	m := NewConfigManager(nil)
	if _, err := m.Load(root); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan Config, 4)
	if err := m.Watch(func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.WatchFile(ctx, nil) }()
	defer func() {
		cancel()
		<-done
	}()

	updated := strings.Replace(validYAML, "type: drupal", "type: typo3", 1)
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	// Rewrite until the watcher is registered and sees a change.
	for {
		if err := os.WriteFile(m.Path(), []byte(updated), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case c := <-reloaded:
			if c.Type != models.AppTypeTYPO3 {
				t.Errorf("reloaded Type = %q, want typo3", c.Type)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatchFileNotInitialized(t *testing.T) {
	t.Parallel()

	err := NewConfigManager(nil).WatchFile(context.Background(), nil)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}
