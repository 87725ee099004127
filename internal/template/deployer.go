package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/manifest"
)

// File describes one file to deploy.
type File struct {
	// Source is the path inside the template filesystem. Sources ending in
	// .tmpl are rendered; everything else is copied verbatim.
	Source string

	// Target is the destination relative to the project root.
	Target string

	// Perm is the file mode of the written file. Zero means 0644.
	Perm fs.FileMode

	// Required makes a user-owned target fail the deploy instead of being skipped.
	Required bool

	// CreateOnly seeds a user-owned file: it is written only when absent and
	// never overwritten afterwards. Such files are not tracked.
	CreateOnly bool
}

// Outcome describes what happened to a deployed file.
type Outcome string

const (
	OutcomeWritten   Outcome = "written"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeCreated   Outcome = "created"
	OutcomeExists    Outcome = "exists"
	OutcomeUserOwned Outcome = "user_owned"
)

// FileResult is the per-file outcome of a deploy.
type FileResult struct {
	Target      string
	Outcome     Outcome
	ContentHash string
	Err         error
}

// Report summarises a deploy.
type Report struct {
	Files []FileResult
}

// Written returns targets whose content was (re)written or created.
func (r *Report) Written() []string {
	var out []string
	for _, f := range r.Files {
		if f.Outcome == OutcomeWritten || f.Outcome == OutcomeCreated {
			out = append(out, f.Target)
		}
	}
	return out
}

// Skipped returns results for user-owned targets that were left alone.
func (r *Report) Skipped() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Outcome == OutcomeUserOwned {
			out = append(out, f)
		}
	}
	return out
}

// @MX:ANCHOR: [AUTO] Deployer is the render-then-guarded-write contract every settings generator goes through.
// Deployer renders templates and writes them into a project through the
// guarded writer, tracking each file in the manifest.
type Deployer interface {
	// Deploy renders every file, then writes them in order. A user-owned
	// target is skipped and recorded unless the file is Required. Missing
	// fields and write failures abort the deploy.
	Deploy(ctx context.Context, projectRoot string, files []File, m manifest.Manager, tmplCtx *TemplateContext) (*Report, error)

	// ExtractTemplate returns the raw content of a single template by name.
	ExtractTemplate(name string) ([]byte, error)

	// ListTemplates returns the relative paths of all templates, without the .tmpl suffix.
	ListTemplates() []string
}

// deployer is the concrete implementation of Deployer.
type deployer struct {
	fsys     fs.FS
	renderer Renderer
	writer   *fileguard.Writer
	logger   *slog.Logger
}

// NewDeployer creates a Deployer backed by the given filesystem.
// In production the fs.FS comes from EmbeddedTemplates; in tests use testing/fstest.MapFS.
func NewDeployer(fsys fs.FS, renderer Renderer, writer *fileguard.Writer, logger *slog.Logger) Deployer {
	if writer == nil {
		writer = fileguard.NewWriter("")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &deployer{fsys: fsys, renderer: renderer, writer: writer, logger: logger}
}

// Deploy renders every file first and only then writes them in order, so a
// render failure leaves the project untouched.
func (d *deployer) Deploy(ctx context.Context, projectRoot string, files []File, m manifest.Manager, tmplCtx *TemplateContext) (*Report, error) {
	projectRoot = filepath.Clean(projectRoot)
	report := &Report{}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	contents := make([][]byte, len(files))
	for i, f := range files {
		if err := validateDeployPath(projectRoot, f.Target); err != nil {
			return report, err
		}
		content, err := d.content(f, tmplCtx)
		if err != nil {
			return report, err
		}
		contents[i] = content
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := d.write(projectRoot, f, contents[i])
		switch {
		case err == nil:
			report.Files = append(report.Files, res)
			if m != nil && !f.CreateOnly && res.Outcome != OutcomeExists {
				if trackErr := m.Track(f.Target, manifest.TemplateManaged, res.ContentHash); trackErr != nil {
					return report, fmt.Errorf("template deploy track %q: %w", f.Target, trackErr)
				}
			}
			d.logger.Debug("deployed file", "target", f.Target, "outcome", res.Outcome)

		case errors.Is(err, fileguard.ErrNotManaged):
			report.Files = append(report.Files, res)
			if m != nil {
				provenance := manifest.UserCreated
				if prev, ok := m.GetEntry(f.Target); ok && prev.Provenance != manifest.UserCreated {
					provenance = manifest.UserModified
				}
				if trackErr := m.Track(f.Target, provenance, ""); trackErr != nil {
					return report, fmt.Errorf("template deploy track %q: %w", f.Target, trackErr)
				}
			}
			d.logger.Warn("skipping user-owned file", "target", f.Target)
			if f.Required {
				return report, err
			}

		default:
			return report, err
		}
	}
	return report, nil
}

// write stores already rendered content at f.Target.
func (d *deployer) write(projectRoot string, f File, content []byte) (FileResult, error) {
	res := FileResult{Target: f.Target, ContentHash: manifest.HashBytes(content)}

	perm := f.Perm
	if perm == 0 {
		perm = 0o644
	}
	destPath := filepath.Join(projectRoot, filepath.FromSlash(f.Target))

	if f.CreateOnly {
		created, err := d.writer.CreateIfAbsent(destPath, content, perm)
		if err != nil {
			return res, err
		}
		res.Outcome = OutcomeExists
		if created {
			res.Outcome = OutcomeCreated
		}
		return res, nil
	}

	// Identical content already carries the signature; skip the rewrite so
	// mtimes stay stable for watchers.
	if existing, readErr := os.ReadFile(destPath); readErr == nil && bytes.Equal(existing, content) {
		res.Outcome = OutcomeUnchanged
		return res, nil
	}

	if err := d.writer.WriteFile(destPath, content, perm); err != nil {
		if errors.Is(err, fileguard.ErrNotManaged) {
			res.Outcome = OutcomeUserOwned
			res.Err = err
		}
		return res, err
	}
	res.Outcome = OutcomeWritten
	return res, nil
}

// content renders or reads the source of f.
func (d *deployer) content(f File, tmplCtx *TemplateContext) ([]byte, error) {
	if strings.HasSuffix(f.Source, ".tmpl") {
		if d.renderer == nil {
			return nil, fmt.Errorf("template render %q: no renderer configured", f.Source)
		}
		if tmplCtx == nil {
			return nil, fmt.Errorf("template render %q: no template context", f.Source)
		}
		rendered, err := d.renderer.Render(f.Source, tmplCtx)
		if err != nil {
			return nil, fmt.Errorf("template render %q: %w", f.Source, err)
		}
		return rendered, nil
	}
	return d.ExtractTemplate(f.Source)
}

// ExtractTemplate returns the content of a single named template.
func (d *deployer) ExtractTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

// ListTemplates returns sorted relative paths of all files in the template FS.
func (d *deployer) ListTemplates() []string {
	var list []string

	_ = fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors during listing
		}
		if path == "." || entry.IsDir() {
			return nil
		}
		targetPath := path
		if before, ok := strings.CutSuffix(path, ".tmpl"); ok {
			targetPath = before
		}
		list = append(list, targetPath)
		return nil
	})

	return list
}

// validateDeployPath ensures a target path does not escape projectRoot.
func validateDeployPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
