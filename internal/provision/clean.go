package provision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/manifest"
)

// CleanResult summarizes a Clean pass.
type CleanResult struct {
	Removed []string
	// Kept lists tracked files left in place because the user owns them.
	Kept []string
}

// Clean removes every generated file recorded in the manifest that still
// carries the signature. Files the user took over are kept and re-tracked
// as user_modified. The manifest itself is removed once nothing is tracked.
func (p *provisioner) Clean(ctx context.Context, opts Options) (*CleanResult, error) {
	root := filepath.Clean(opts.ProjectRoot)
	m, err := manifest.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	result := &CleanResult{}
	for _, target := range m.Paths() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entry, _ := m.GetEntry(target)
		if entry.Provenance != manifest.TemplateManaged {
			result.Kept = append(result.Kept, target)
			continue
		}

		abs := filepath.Join(root, filepath.FromSlash(target))
		err := p.writer.Remove(abs)
		switch {
		case err == nil:
			m.Remove(target)
			result.Removed = append(result.Removed, target)
			p.logger.Debug("removed generated file", "target", target)
		case errors.Is(err, fileguard.ErrNotManaged):
			_ = m.Track(target, manifest.UserModified, "")
			result.Kept = append(result.Kept, target)
			p.logger.Warn("file is user-owned, not removed", "target", target)
		default:
			return result, err
		}
	}

	if len(m.Paths()) == 0 {
		manifestPath := filepath.Join(root, defs.ProjectDir, defs.ManifestJSON)
		if err := p.writer.Remove(manifestPath); err != nil && !errors.Is(err, fileguard.ErrNotManaged) {
			return result, fmt.Errorf("remove manifest: %w", err)
		}
		return result, nil
	}
	if err := m.Save(); err != nil && !errors.Is(err, fileguard.ErrNotManaged) {
		return result, fmt.Errorf("save manifest: %w", err)
	}
	return result, nil
}
