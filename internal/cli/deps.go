// Package cli provides the Cobra command tree and dependency injection
// wiring for settingsgen. This file defines the Dependencies struct
// (Composition Root) that wires all domain modules together.
package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/modu-ai/settingsgen/internal/config"
	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/provision"
	"github.com/modu-ai/settingsgen/internal/template"
	"github.com/modu-ai/settingsgen/internal/ui"
)

// Dependencies holds all domain-level services used by CLI commands.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Config      *config.ConfigManager
	Templates   fs.FS
	Writer      *fileguard.Writer
	Provisioner provision.Provisioner
	Theme       *ui.Theme
	Headless    *ui.HeadlessManager
	Logger      *slog.Logger

	// LogOutput receives structured logs. Defaults to os.Stderr.
	LogOutput io.Writer
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// @MX:ANCHOR: [AUTO] InitDependencies is the Composition Root that wires all domain modules
// @MX:REASON: [AUTO] fan_in=3, called from root.go, cli tests and LoadProject
// InitDependencies creates the project-independent services. Services that
// depend on the project's logging settings are rebuilt by LoadProject.
func InitDependencies() error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	templates, err := template.EmbeddedTemplates()
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	deps = &Dependencies{
		Config:    config.NewConfigManager(logger),
		Templates: templates,
		Writer:    fileguard.NewWriter(""),
		Theme:     ui.NewTheme(os.Getenv(config.EnvNoColor) != ""),
		Headless:  ui.NewHeadlessManager(),
		Logger:    logger,
		LogOutput: os.Stderr,
	}
	deps.wireProvisioner()
	return nil
}

// GetDeps returns the current Dependencies instance.
// Returns nil if InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// LoadProject loads .ddev/config.yaml under projectRoot, rebuilds the
// logger from its system section and rewires the provisioner with it.
func (d *Dependencies) LoadProject(projectRoot string, verbose bool) (*config.Config, error) {
	cfg, err := d.Config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	d.Logger = newLogger(cfg.System, verbose, d.LogOutput)
	d.Config.SetLogger(d.Logger)
	if cfg.System.NoColor {
		d.Theme.NoColor = true
	}
	d.wireProvisioner()

	d.Logger.Debug("project loaded", "root", d.Config.Root(), "name", cfg.Name, "type", cfg.Type)
	return cfg, nil
}

func (d *Dependencies) wireProvisioner() {
	renderer := template.NewRenderer(d.Templates)
	deployer := template.NewDeployer(d.Templates, renderer, d.Writer, d.Logger)
	d.Provisioner = provision.NewProvisioner(d.Templates, deployer, d.Writer, d.Logger)
}

// newLogger builds the CLI logger. Without --verbose nothing below warn is
// emitted so progress output stays readable; --verbose forces debug.
func newLogger(sys config.SystemConfig, verbose bool, w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}

	level := parseLevel(sys.LogLevel)
	if verbose {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(sys.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// projectRootFlag resolves the --root flag, defaulting to the working directory.
func projectRootFlag(root string) (string, error) {
	if root != "" {
		return root, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}
