// Package manifest records which files a provisioning run generated, so
// later runs can report drift and clean up without touching user files.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/fileguard"
)

// Provenance describes who owns a tracked file.
type Provenance string

const (
	// TemplateManaged files were written by settingsgen and still carry the signature.
	TemplateManaged Provenance = "template_managed"

	// UserCreated files existed without the signature before settingsgen ever wrote them.
	UserCreated Provenance = "user_created"

	// UserModified files were generated once, then the user removed the signature.
	UserModified Provenance = "user_modified"
)

// ErrInvalidManifest indicates the manifest file could not be parsed.
var ErrInvalidManifest = errors.New("manifest: invalid manifest file")

// FileEntry describes one tracked file.
type FileEntry struct {
	Provenance  Provenance `json:"provenance"`
	ContentHash string     `json:"content_hash"`
	RunID       string     `json:"run_id"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Manager tracks generated files for one project.
type Manager interface {
	// Track records the provenance and content hash of relPath.
	Track(relPath string, provenance Provenance, contentHash string) error

	// GetEntry returns the entry for relPath, if any.
	GetEntry(relPath string) (FileEntry, bool)

	// Entries returns a copy of all entries keyed by relative path.
	Entries() map[string]FileEntry

	// Paths returns tracked relative paths in sorted order.
	Paths() []string

	// Remove forgets relPath.
	Remove(relPath string)

	// RunID identifies the current provisioning run.
	RunID() string

	// Save persists the manifest.
	Save() error
}

// document is the on-disk representation. Marker carries the signature so the
// manifest itself is guarded like every other generated file.
type document struct {
	Marker string               `json:"marker"`
	Files  map[string]FileEntry `json:"files"`
}

type fileManager struct {
	mu     sync.RWMutex
	path   string
	runID  string
	files  map[string]FileEntry
	writer *fileguard.Writer
	now    func() time.Time
}

// Load reads the manifest for projectRoot, returning an empty manifest if
// none exists yet. Each call starts a new run id.
func Load(projectRoot string) (Manager, error) {
	m := &fileManager{
		path:   filepath.Join(filepath.Clean(projectRoot), defs.ProjectDir, defs.ManifestJSON),
		runID:  uuid.NewString(),
		files:  make(map[string]FileEntry),
		writer: fileguard.NewWriter(defs.Signature),
		now:    time.Now,
	}

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, m.path, err)
	}
	if doc.Files != nil {
		m.files = doc.Files
	}
	return m, nil
}

// Track records the provenance and content hash of relPath.
func (m *fileManager) Track(relPath string, provenance Provenance, contentHash string) error {
	if relPath == "" {
		return fmt.Errorf("manifest: empty path")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[filepath.ToSlash(relPath)] = FileEntry{
		Provenance:  provenance,
		ContentHash: contentHash,
		RunID:       m.runID,
		UpdatedAt:   m.now().UTC(),
	}
	return nil
}

// GetEntry returns the entry for relPath, if any.
func (m *fileManager) GetEntry(relPath string) (FileEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.files[filepath.ToSlash(relPath)]
	return e, ok
}

// Entries returns a copy of all entries.
func (m *fileManager) Entries() map[string]FileEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]FileEntry, len(m.files))
	maps.Copy(out, m.files)
	return out
}

// Paths returns tracked relative paths in sorted order.
func (m *fileManager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.files))
}

// Remove forgets relPath.
func (m *fileManager) Remove(relPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.ToSlash(relPath))
}

// RunID identifies the current provisioning run.
func (m *fileManager) RunID() string {
	return m.runID
}

// Save persists the manifest through the guarded writer. A manifest the user
// has taken over (signature removed) is left alone and reported as NotManaged.
func (m *fileManager) Save() error {
	m.mu.RLock()
	doc := document{Marker: defs.Signature, Files: m.files}
	data, err := json.MarshalIndent(doc, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	return m.writer.WriteFile(m.path, data, 0o644)
}

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex sha256 of the file at path.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}
