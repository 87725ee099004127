package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/settingsgen/internal/defs"
)

// Environment variables read by the loader.
const (
	EnvConfigDir       = "SETTINGSGEN_CONFIG_DIR"
	EnvLogLevel        = "SETTINGSGEN_LOG_LEVEL"
	EnvLogFormat       = "SETTINGSGEN_LOG_FORMAT"
	EnvNoColor         = "SETTINGSGEN_NO_COLOR"
	EnvDockerIP        = "DDEV_DOCKER_IP"
	EnvDBPublishedPort = "DDEV_DB_PUBLISHED_PORT"
)

// Loader reads config.yaml from a configuration directory.
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
}

// NewLoader creates a new Loader. A nil logger discards log output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// ConfigDir returns the configuration directory for projectRoot, honouring
// the SETTINGSGEN_CONFIG_DIR override.
func (l *Loader) ConfigDir(projectRoot string) string {
	if envDir := l.getenv(EnvConfigDir); envDir != "" {
		return filepath.Clean(envDir)
	}
	return filepath.Join(filepath.Clean(projectRoot), defs.ProjectDir)
}

// Load reads configDir/config.yaml over the compiled defaults and applies
// environment overrides. It does not validate.
func (l *Loader) Load(configDir string) (*Config, error) {
	path := filepath.Join(configDir, defs.ConfigYAML)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}
	l.logger.Debug("loaded config", "path", path, "name", cfg.Name, "type", cfg.Type)

	l.applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have higher priority than file-based values.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if level := l.getenv(EnvLogLevel); level != "" {
		cfg.System.LogLevel = level
	}
	if format := l.getenv(EnvLogFormat); format != "" {
		cfg.System.LogFormat = format
	}
	if noColor := l.getenv(EnvNoColor); noColor == "true" || noColor == "1" {
		cfg.System.NoColor = true
	}
	if ip := l.getenv(EnvDockerIP); ip != "" {
		cfg.Runtime.DockerIP = ip
	}
	if raw := l.getenv(EnvDBPublishedPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			// The orchestrator may not know the port yet; host-side
			// rendering then falls back to the internal port.
			l.logger.Warn("ignoring invalid published port", "env", EnvDBPublishedPort, "value", raw)
		} else {
			cfg.Runtime.DBPublishedPort = port
		}
	}
}
