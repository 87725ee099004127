package config

import "github.com/modu-ai/settingsgen/pkg/models"

// Config mirrors the parts of .ddev/config.yaml that settings generation
// reads. Unknown keys in the file are preserved on Save.
type Config struct {
	Name    string         `yaml:"name" validate:"required,max=63,projectname"`
	Type    models.AppType `yaml:"type" validate:"required"`
	Docroot string         `yaml:"docroot"`

	// ProjectTLD is the domain suffix of the primary URL.
	ProjectTLD string `yaml:"project_tld,omitempty" validate:"omitempty,hostname_rfc1123"`

	Database DatabaseConfig `yaml:"database"`

	XHProfMode models.XHProfMode `yaml:"xhprof_mode,omitempty"`

	// DisableSettingsManagement stops settingsgen from touching CMS settings files.
	DisableSettingsManagement bool `yaml:"disable_settings_management,omitempty"`

	// HashSalt overrides the salt derived from the project name.
	HashSalt string `yaml:"hash_salt,omitempty"`

	System SystemConfig `yaml:"system,omitempty"`

	// Runtime holds values discovered from the environment, never from the file.
	Runtime RuntimeConfig `yaml:"-"`
}

// DatabaseConfig describes the database server and credentials.
type DatabaseConfig struct {
	Type     models.DatabaseType `yaml:"type"`
	Version  string              `yaml:"version"`
	Host     string              `yaml:"host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	Port     int                 `yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	Name     string              `yaml:"name,omitempty"`
	Username string              `yaml:"username,omitempty"`
	Password string              `yaml:"password,omitempty"`
	Prefix   string              `yaml:"prefix,omitempty"`
}

// SystemConfig controls the tool itself rather than the project.
type SystemConfig struct {
	LogLevel  string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`
	NoColor   bool   `yaml:"no_color,omitempty"`
}

// RuntimeConfig holds values only the surrounding orchestrator knows.
// Either may be empty when the runtime could not be queried.
type RuntimeConfig struct {
	DockerIP        string `validate:"omitempty,ip|hostname_rfc1123"`
	DBPublishedPort int    `validate:"gte=0,lte=65535"`
}
