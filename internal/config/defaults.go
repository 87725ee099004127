package config

import "github.com/modu-ai/settingsgen/pkg/models"

// Default value constants to avoid magic numbers and strings.
const (
	DefaultDatabaseType    = models.DatabaseMariaDB
	DefaultDatabaseVersion = "10.11"
	DefaultDatabaseHost    = "db"
	DefaultDatabaseName    = "db"
	DefaultDatabaseUser    = "db"
	DefaultDatabasePass    = "db"

	DefaultProjectTLD = "ddev.site"

	// DefaultContainerRoot is where the project is mounted in the web container.
	DefaultContainerRoot = "/var/www/html"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// NewDefaultConfig returns a Config with all fields set to compiled defaults.
// Name and Type have no default; they must come from config.yaml.
func NewDefaultConfig() *Config {
	return &Config{
		ProjectTLD: DefaultProjectTLD,
		Database:   NewDefaultDatabaseConfig(),
		System:     NewDefaultSystemConfig(),
	}
}

// NewDefaultDatabaseConfig returns a DatabaseConfig with default values.
// Port is left zero so the internal port of the database type applies.
func NewDefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Type:     DefaultDatabaseType,
		Version:  DefaultDatabaseVersion,
		Host:     DefaultDatabaseHost,
		Name:     DefaultDatabaseName,
		Username: DefaultDatabaseUser,
		Password: DefaultDatabasePass,
	}
}

// NewDefaultSystemConfig returns a SystemConfig with default values.
func NewDefaultSystemConfig() SystemConfig {
	return SystemConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}
