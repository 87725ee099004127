package config

import (
	"path/filepath"
	"testing"
)

func TestLoaderEnvOverrides(t *testing.T) {
	root := setupManagerTestDir(t, validYAML+"system:\n  log_level: warn\n")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvNoColor, "1")
	t.Setenv(EnvDockerIP, "192.168.5.2")
	t.Setenv(EnvDBPublishedPort, "32768")

	l := NewLoader(nil)
	cfg, err := l.Load(filepath.Join(root, ".ddev"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.System.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.System.LogLevel)
	}
	if cfg.System.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.System.LogFormat)
	}
	if !cfg.System.NoColor {
		t.Error("NoColor = false, want true")
	}
	if cfg.Runtime.DockerIP != "192.168.5.2" {
		t.Errorf("DockerIP = %q", cfg.Runtime.DockerIP)
	}
	if cfg.Runtime.DBPublishedPort != 32768 {
		t.Errorf("DBPublishedPort = %d", cfg.Runtime.DBPublishedPort)
	}
}

func TestLoaderInvalidPublishedPortIgnored(t *testing.T) {
	root := setupManagerTestDir(t, validYAML)
	t.Setenv(EnvDBPublishedPort, "not-a-port")

	cfg, err := NewLoader(nil).Load(filepath.Join(root, ".ddev"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Runtime.DBPublishedPort != 0 {
		t.Errorf("DBPublishedPort = %d, want 0", cfg.Runtime.DBPublishedPort)
	}
}

func TestLoaderFileValuesOverDefaults(t *testing.T) {
	root := setupManagerTestDir(t, `name: demo
type: wordpress
database:
  type: postgres
  version: "16"
  name: wordpress
`)
	cfg, err := NewLoader(nil).Load(filepath.Join(root, ".ddev"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.Name != "wordpress" {
		t.Errorf("Database.Name = %q", cfg.Database.Name)
	}
	// Keys absent from the nested mapping keep their defaults.
	if cfg.Database.Username != DefaultDatabaseUser {
		t.Errorf("Database.Username = %q, want default", cfg.Database.Username)
	}
	if cfg.ProjectTLD != DefaultProjectTLD {
		t.Errorf("ProjectTLD = %q", cfg.ProjectTLD)
	}
}
