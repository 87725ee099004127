package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/settingsgen/internal/defs"
)

// managerState represents the lifecycle state of the ConfigManager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
	stateWatching
)

// @MX:ANCHOR: [AUTO] ConfigManager is the entry point for every configuration read; call Load() before use.
// ConfigManager provides thread-safe configuration management.
// It must be initialized via Load() before use.
type ConfigManager struct {
	mu        sync.RWMutex
	config    *Config
	root      string
	configDir string
	state     managerState
	loader    *Loader
	logger    *slog.Logger
	callbacks []func(Config)
}

// NewConfigManager creates a new ConfigManager instance in uninitialized state.
func NewConfigManager(logger *slog.Logger) *ConfigManager {
	loader := NewLoader(logger)
	return &ConfigManager{
		loader: loader,
		logger: loader.logger,
		state:  stateUninitialized,
	}
}

// SetLogger replaces the logger used for load and watch diagnostics.
// A nil logger discards output.
func (m *ConfigManager) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
	m.loader.logger = logger
}

// Load reads .ddev/config.yaml under projectRoot, merges it with compiled
// defaults, applies environment overrides and validates the result.
func (m *ConfigManager) Load(projectRoot string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	configDir := m.loader.ConfigDir(projectRoot)
	cfg, err := m.loader.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	m.config = cfg
	m.root = filepath.Clean(projectRoot)
	m.configDir = configDir
	m.state = stateInitialized
	return cfg, nil
}

// Get returns the current in-memory configuration.
// Returns nil if the manager has not been initialized via Load().
func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Root returns the project root passed to Load.
func (m *ConfigManager) Root() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// Path returns the path of the loaded config.yaml.
func (m *ConfigManager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.configDir == "" {
		return ""
	}
	return filepath.Join(m.configDir, defs.ConfigYAML)
}

// Set replaces the in-memory configuration after validating it.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Set(cfg Config) error {
	if err := Validate(&cfg); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateUninitialized {
		return ErrNotInitialized
	}
	m.config = &cfg
	return nil
}

// Reload forces a re-read from disk, replacing the in-memory configuration
// and notifying registered callbacks. On error the previous configuration
// stays in place. Callbacks run without the lock held, so they may call Get.
func (m *ConfigManager) Reload() error {
	m.mu.Lock()
	if m.state == stateUninitialized {
		m.mu.Unlock()
		return ErrNotInitialized
	}

	cfg, err := m.loader.Load(m.configDir)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("reload config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		m.mu.Unlock()
		return err
	}
	m.config = cfg
	callbacks := slices.Clone(m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(*cfg)
	}
	return nil
}

// Watch registers a callback to be invoked when configuration is reloaded.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Watch(callback func(Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}

	m.callbacks = append(m.callbacks, callback)
	m.state = stateWatching
	return nil
}

// Save writes the configuration back to config.yaml atomically. Keys the
// tool does not model are kept as they were.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}
	return SaveFile(filepath.Join(m.configDir, defs.ConfigYAML), m.config)
}

// SaveFile writes cfg to path, merging its keys over any existing top-level
// keys in the file.
func SaveFile(path string, cfg *Config) error {
	doc := map[string]any{}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(existing, &doc); err != nil {
			return fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", path, err)
	}

	ours, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var oursMap map[string]any
	if err := yaml.Unmarshal(ours, &oursMap); err != nil {
		return fmt.Errorf("remarshal config: %w", err)
	}
	for k, v := range oursMap {
		doc[k] = v
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
// config.yaml belongs to the user, so it bypasses the signature guard.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settingsgen-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
