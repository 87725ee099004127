package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/fileguard"
)

func TestLoadEmpty(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(m.Entries()) != 0 {
		t.Errorf("expected no entries, got %d", len(m.Entries()))
	}
	if m.RunID() == "" {
		t.Error("expected run id")
	}
}

func TestTrackSaveReload(t *testing.T) {
	root := t.TempDir()
	m, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	hash := HashBytes([]byte("content"))
	if err := m.Track("web/sites/default/settings.ddev.php", TemplateManaged, hash); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := m.Track("web/wp-config.php", UserCreated, ""); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, defs.ProjectDir, defs.ManifestJSON))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), defs.Signature) {
		t.Error("manifest file lacks signature")
	}

	reloaded, err := Load(root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	entry, ok := reloaded.GetEntry("web/sites/default/settings.ddev.php")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if entry.Provenance != TemplateManaged || entry.ContentHash != hash {
		t.Errorf("entry = %+v", entry)
	}
	if entry.RunID != m.RunID() {
		t.Errorf("run id = %q, want %q", entry.RunID, m.RunID())
	}
	if reloaded.RunID() == m.RunID() {
		t.Error("expected a fresh run id per Load")
	}

	paths := reloaded.Paths()
	if len(paths) != 2 || paths[0] != "web/sites/default/settings.ddev.php" {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestRemove(t *testing.T) {
	m, _ := Load(t.TempDir())
	_ = m.Track("a.php", TemplateManaged, "x")
	m.Remove("a.php")
	if _, ok := m.GetEntry("a.php"); ok {
		t.Error("entry still present after Remove")
	}
}

func TestTrackEmptyPath(t *testing.T) {
	m, _ := Load(t.TempDir())
	if err := m.Track("", TemplateManaged, ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadInvalid(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, defs.ProjectDir, defs.ManifestJSON)
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	_ = os.WriteFile(p, []byte("{not json"), 0o644)

	_, err := Load(root)
	if !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestSaveRespectsUserOwnedManifest(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, defs.ProjectDir, defs.ManifestJSON)
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	_ = os.WriteFile(p, []byte(`{"files":{}}`), 0o644)

	m, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.Track("a.php", TemplateManaged, "x")
	if err := m.Save(); !errors.Is(err, fileguard.ErrNotManaged) {
		t.Errorf("expected ErrNotManaged, got %v", err)
	}
}

func TestHashFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f")
	_ = os.WriteFile(p, []byte("abc"), 0o644)
	got, err := HashFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if got != HashBytes([]byte("abc")) {
		t.Errorf("HashFile mismatch")
	}
}
