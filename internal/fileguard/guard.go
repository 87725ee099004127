package fileguard

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modu-ai/settingsgen/internal/defs"
)

// Writer performs signature-guarded atomic writes.
type Writer struct {
	signature string

	// beforeRename runs after the temp file is complete and before it is
	// moved into place. Tests use it to simulate an interrupted write.
	beforeRename func(tmpPath string) error
}

// NewWriter creates a Writer that recognises the given signature.
// An empty signature selects defs.Signature.
func NewWriter(signature string) *Writer {
	if signature == "" {
		signature = defs.Signature
	}
	return &Writer{signature: signature}
}

// Signature returns the marker this writer looks for.
func (w *Writer) Signature() string {
	return w.signature
}

// WriteFile writes content to path if the path is absent or carries the
// signature. The content itself must contain the signature. The file is
// replaced atomically: readers see either the old or the new content.
func (w *Writer) WriteFile(path string, content []byte, perm fs.FileMode) error {
	if !bytes.Contains(content, []byte(w.signature)) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, path)
	}
	if err := w.CheckSignatureOrNoFile(path); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Op: "mkdir", Err: err}
	}
	return w.atomicWrite(path, content, perm)
}

// CheckSignatureOrNoFile returns nil when path does not exist or carries the
// signature. Directories are checked recursively: every regular file below
// must carry it.
func (w *Writer) CheckSignatureOrNoFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &WriteError{Path: path, Op: "stat", Err: err}
	}

	if !info.IsDir() {
		return w.checkFile(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &WriteError{Path: p, Op: "walk", Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}
		return w.checkFile(p)
	})
}

func (w *Writer) checkFile(path string) error {
	found, err := HasSignature(path, w.signature)
	if err != nil {
		return &WriteError{Path: path, Op: "read", Err: err}
	}
	if !found {
		return &NotManagedError{Path: path, Signature: w.signature}
	}
	return nil
}

// Remove deletes path only if it carries the signature. A missing file is
// not an error.
func (w *Writer) Remove(path string) error {
	if !FileExists(path) {
		return nil
	}
	if err := w.checkFile(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &WriteError{Path: path, Op: "remove", Err: err}
	}
	return nil
}

// CreateIfAbsent writes content to path only when nothing exists there yet.
// It is used for seed files the user owns from the moment they are created,
// so the content need not carry the signature. It reports whether the file
// was created.
func (w *Writer) CreateIfAbsent(path string, content []byte, perm fs.FileMode) (bool, error) {
	if FileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, &WriteError{Path: path, Op: "mkdir", Err: err}
	}
	if err := w.atomicWrite(path, content, perm); err != nil {
		return false, err
	}
	return true, nil
}

// AppendIfMissing appends stanza to an existing user-owned file unless the
// file already contains needle. The file is rewritten atomically with its
// original permissions so an interruption never truncates it.
// It reports whether the file was modified.
func (w *Writer) AppendIfMissing(path, needle, stanza string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, &WriteError{Path: path, Op: "stat", Err: err}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, &WriteError{Path: path, Op: "read", Err: err}
	}
	if bytes.Contains(content, []byte(needle)) {
		return false, nil
	}

	updated := make([]byte, 0, len(content)+len(stanza))
	updated = append(updated, content...)
	updated = append(updated, stanza...)
	if err := w.atomicWrite(path, updated, info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// atomicWrite writes data to a temp file in the target directory, syncs it,
// then renames it over path. The temp file is removed on every error path.
func (w *Writer) atomicWrite(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settingsgen-*.tmp")
	if err != nil {
		return &WriteError{Path: path, Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: path, Op: "write temp file", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: path, Op: "sync temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Op: "close temp file", Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &WriteError{Path: path, Op: "chmod temp file", Err: err}
	}

	if w.beforeRename != nil {
		if err := w.beforeRename(tmpName); err != nil {
			return &WriteError{Path: path, Op: "rename", Err: err}
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
