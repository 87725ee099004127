package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/fileguard"
)

const seedContent = "<?php\n$ddev_settings = __DIR__ . '/settings.ddev.php';\n"

func includeFixture(t *testing.T, existing *string) (string, *Include, fstest.MapFS) {
	t.Helper()
	root := t.TempDir()
	inc := &Include{
		Target: "web/sites/default/settings.php",
		Seed:   "drupal/settings.php",
		Needle: defs.DrupalSettingsDdev,
		Stanza: includeStanza(defs.DrupalSettingsDdev),
	}
	if existing != nil {
		path := filepath.Join(root, filepath.FromSlash(inc.Target))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(*existing), 0o640); err != nil {
			t.Fatal(err)
		}
	}
	fsys := fstest.MapFS{"drupal/settings.php": &fstest.MapFile{Data: []byte(seedContent)}}
	return root, inc, fsys
}

func readTarget(t *testing.T, root string, inc *Include) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(inc.Target)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEnsureInclude(t *testing.T) {
	w := fileguard.NewWriter("")

	t.Run("missing_file_is_seeded", func(t *testing.T) {
		root, inc, fsys := includeFixture(t, nil)

		got, err := EnsureInclude(w, fsys, root, inc)
		if err != nil {
			t.Fatalf("EnsureInclude error: %v", err)
		}
		if got != IncludeSeeded {
			t.Errorf("outcome = %q, want %q", got, IncludeSeeded)
		}
		if readTarget(t, root, inc) != seedContent {
			t.Error("seed not written")
		}
	})

	t.Run("empty_file_is_seeded", func(t *testing.T) {
		empty := ""
		root, inc, fsys := includeFixture(t, &empty)

		got, err := EnsureInclude(w, fsys, root, inc)
		if err != nil {
			t.Fatalf("EnsureInclude error: %v", err)
		}
		if got != IncludeSeeded {
			t.Errorf("outcome = %q, want %q", got, IncludeSeeded)
		}
		if readTarget(t, root, inc) != seedContent {
			t.Error("empty settings.php not replaced by seed")
		}
	})

	t.Run("stanza_appended_once", func(t *testing.T) {
		user := "<?php\n$databases = [];\n"
		root, inc, fsys := includeFixture(t, &user)

		got, err := EnsureInclude(w, fsys, root, inc)
		if err != nil {
			t.Fatalf("EnsureInclude error: %v", err)
		}
		if got != IncludeAppended {
			t.Errorf("outcome = %q, want %q", got, IncludeAppended)
		}
		content := readTarget(t, root, inc)
		if !strings.HasPrefix(content, user) {
			t.Error("existing content not preserved")
		}
		if strings.Count(content, defs.DrupalSettingsDdev) != 1 {
			t.Errorf("stanza count wrong:\n%s", content)
		}

		got, err = EnsureInclude(w, fsys, root, inc)
		if err != nil {
			t.Fatal(err)
		}
		if got != IncludePresent {
			t.Errorf("second outcome = %q, want %q", got, IncludePresent)
		}
		if readTarget(t, root, inc) != content {
			t.Error("second run modified the file")
		}

		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(inc.Target)))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o640 {
			t.Errorf("mode = %v, want 0640", info.Mode().Perm())
		}
	})

	t.Run("already_included", func(t *testing.T) {
		user := "<?php\ninclude 'settings.ddev.php';\n"
		root, inc, fsys := includeFixture(t, &user)

		got, err := EnsureInclude(w, fsys, root, inc)
		if err != nil {
			t.Fatal(err)
		}
		if got != IncludePresent {
			t.Errorf("outcome = %q, want %q", got, IncludePresent)
		}
		if readTarget(t, root, inc) != user {
			t.Error("file modified")
		}
	})
}

func TestIncludeStanza(t *testing.T) {
	s := includeStanza("settings.ddev.php")
	if !strings.Contains(s, "dirname(__FILE__) . '/settings.ddev.php'") {
		t.Errorf("stanza = %q", s)
	}
	if !strings.Contains(s, "IS_DDEV_PROJECT") {
		t.Error("stanza does not check IS_DDEV_PROJECT")
	}
}
