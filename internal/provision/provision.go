// Package provision runs a settings generation pass for one project: it
// derives the render model, plans the files, deploys them through the
// guarded writer and records the outcome in the manifest.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/manifest"
	"github.com/modu-ai/settingsgen/internal/settings"
	"github.com/modu-ai/settingsgen/internal/template"
	"github.com/modu-ai/settingsgen/pkg/models"
)

// Options configures one provisioning pass.
type Options struct {
	ProjectRoot string

	// Project is the configuration as loaded. It is copied and completed
	// before rendering; the caller's value is never modified.
	Project *models.ProjectConfig

	DisableSettingsManagement bool
	Strict                    bool
}

// SkippedFile is a target left alone because the user owns it.
type SkippedFile struct {
	Target string
	Reason error
}

// Result summarizes the outcome of a provisioning pass.
type Result struct {
	RunID     string
	AppType   models.AppType
	Written   []string
	Unchanged []string
	Skipped   []SkippedFile
	Include   settings.IncludeOutcome
	Warnings  []string
}

// Provisioner generates, inspects and removes settings files.
type Provisioner interface {
	// Provision renders and writes every planned file.
	Provision(ctx context.Context, opts Options) (*Result, error)

	// Status reports the state of every planned and tracked file.
	Status(opts Options) (*StatusReport, error)

	// Clean removes generated files that still carry the signature.
	Clean(ctx context.Context, opts Options) (*CleanResult, error)
}

// provisioner is the concrete implementation of Provisioner.
type provisioner struct {
	templates fs.FS
	deployer  template.Deployer
	writer    *fileguard.Writer
	logger    *slog.Logger
}

// NewProvisioner creates a Provisioner. templates must be the filesystem the
// deployer renders from; it also supplies seed files for the include step.
func NewProvisioner(templates fs.FS, deployer template.Deployer, writer *fileguard.Writer, logger *slog.Logger) Provisioner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if writer == nil {
		writer = fileguard.NewWriter("")
	}
	return &provisioner{
		templates: templates,
		deployer:  deployer,
		writer:    writer,
		logger:    logger,
	}
}

// @MX:ANCHOR: [AUTO] Provision is the single write path for settings files; every CLI command that writes goes through it.
// Provision renders and writes the project's settings files.
// MissingField and WriteFailure abort the pass. A user-owned target is
// recorded in Result.Skipped and the pass continues, unless the target is
// required (Options.Strict), in which case the NotManaged error is returned.
func (p *provisioner) Provision(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Project == nil {
		return nil, errors.New("provision: no project configuration")
	}
	root := filepath.Clean(opts.ProjectRoot)

	cfg := settings.Derive(opts.Project)
	plan, err := settings.PlanFor(cfg, settings.Options{
		DisableSettingsManagement: opts.DisableSettingsManagement,
		Strict:                    opts.Strict,
	})
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	result := &Result{RunID: m.RunID(), AppType: cfg.Type}
	p.logger.Info("provisioning settings",
		"root", root,
		"name", cfg.Name,
		"type", cfg.Type,
		"files", len(plan.Files),
		"run_id", result.RunID,
	)
	if opts.DisableSettingsManagement {
		result.Warnings = append(result.Warnings, "settings management is disabled; CMS settings files were not touched")
	}

	tmplCtx := template.NewTemplateContext(cfg, template.WithSettingsDdevFile(plan.SettingsDdevFile))
	report, deployErr := p.deployer.Deploy(ctx, root, plan.Files, m, tmplCtx)
	if report != nil {
		collect(result, report)
	}
	if deployErr != nil {
		return result, deployErr
	}

	if plan.Include != nil {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome, err := settings.EnsureInclude(p.writer, p.templates, root, plan.Include)
		if err != nil {
			return result, fmt.Errorf("include %s in %s: %w", plan.SettingsDdevFile, plan.Include.Target, err)
		}
		result.Include = outcome
		p.logger.Debug("settings include", "target", plan.Include.Target, "outcome", outcome)
	}

	result.Warnings = append(result.Warnings, appWarnings(root, cfg)...)

	if err := m.Save(); err != nil {
		if !errors.Is(err, fileguard.ErrNotManaged) {
			return result, fmt.Errorf("save manifest: %w", err)
		}
		result.Warnings = append(result.Warnings, "manifest is user-owned and was not updated")
	}

	for _, s := range result.Skipped {
		p.logger.Warn("file is user-owned, not modified", "target", s.Target)
	}
	p.logger.Info("provisioning complete",
		"written", len(result.Written),
		"unchanged", len(result.Unchanged),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// collect copies deploy outcomes into result.
func collect(result *Result, report *template.Report) {
	for _, f := range report.Files {
		switch f.Outcome {
		case template.OutcomeWritten, template.OutcomeCreated:
			result.Written = append(result.Written, f.Target)
		case template.OutcomeUnchanged, template.OutcomeExists:
			result.Unchanged = append(result.Unchanged, f.Target)
		case template.OutcomeUserOwned:
			result.Skipped = append(result.Skipped, SkippedFile{Target: f.Target, Reason: f.Err})
		}
	}
}

// appWarnings reports setup problems that do not stop generation.
func appWarnings(root string, cfg *models.ProjectConfig) []string {
	if cfg.Type != models.AppTypeTYPO3 {
		return nil
	}
	local := filepath.Join(root, filepath.FromSlash(settings.SiteDir(cfg)), cfg.Type.SettingsFile())
	if fileguard.FileExists(local) {
		return nil
	}
	return []string{fmt.Sprintf("TYPO3 does not seem to have been set up yet, missing %s", cfg.Type.SettingsFile())}
}
