package provision

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/manifest"
	"github.com/modu-ai/settingsgen/internal/settings"
	"github.com/modu-ai/settingsgen/pkg/models"
)

// FileState is the on-disk state of a settings file.
type FileState string

const (
	StateAbsent    FileState = "absent"
	StateManaged   FileState = "managed"
	StateUserOwned FileState = "user_owned"
)

// FileStatus describes one planned or tracked file.
type FileStatus struct {
	Target     string
	State      FileState
	Provenance manifest.Provenance // empty when untracked
	// Drifted is true when a managed file no longer matches the hash
	// recorded when it was written.
	Drifted bool
	Planned bool
}

// StatusReport describes a project's settings files.
type StatusReport struct {
	AppType   models.AppType
	Name      string
	UploadDir string
	Files     []FileStatus
}

// Status inspects every planned file and every file in the manifest.
// It never writes.
func (p *provisioner) Status(opts Options) (*StatusReport, error) {
	if opts.Project == nil {
		return nil, errors.New("provision: no project configuration")
	}
	root := filepath.Clean(opts.ProjectRoot)
	cfg := settings.Derive(opts.Project)

	plan, err := settings.PlanFor(cfg, settings.Options{DisableSettingsManagement: opts.DisableSettingsManagement})
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	report := &StatusReport{
		AppType:   cfg.Type,
		Name:      cfg.Name,
		UploadDir: cfg.Type.UploadDir(),
	}

	seen := make(map[string]bool)
	add := func(target string, planned bool) error {
		if seen[target] {
			return nil
		}
		seen[target] = true
		st, err := p.fileStatus(root, target, m)
		if err != nil {
			return err
		}
		st.Planned = planned
		report.Files = append(report.Files, st)
		return nil
	}

	for _, target := range plan.Targets() {
		if err := add(target, true); err != nil {
			return nil, err
		}
	}
	for _, target := range m.Paths() {
		if err := add(target, false); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(report.Files, func(a, b FileStatus) int {
		switch {
		case a.Planned && !b.Planned:
			return -1
		case !a.Planned && b.Planned:
			return 1
		}
		return 0
	})
	return report, nil
}

func (p *provisioner) fileStatus(root, target string, m manifest.Manager) (FileStatus, error) {
	st := FileStatus{Target: target, State: StateAbsent}
	if entry, ok := m.GetEntry(target); ok {
		st.Provenance = entry.Provenance
	}

	abs := filepath.Join(root, filepath.FromSlash(target))
	if !fileguard.FileExists(abs) {
		return st, nil
	}

	signed, err := fileguard.HasSignature(abs, p.writer.Signature())
	if err != nil {
		return st, fmt.Errorf("inspect %s: %w", target, err)
	}
	if !signed {
		st.State = StateUserOwned
		return st, nil
	}

	st.State = StateManaged
	if entry, ok := m.GetEntry(target); ok && entry.ContentHash != "" {
		hash, err := manifest.HashFile(abs)
		if err != nil {
			return st, fmt.Errorf("hash %s: %w", target, err)
		}
		st.Drifted = hash != entry.ContentHash
	}
	return st, nil
}
