package config

import (
	"path"

	"github.com/modu-ai/settingsgen/pkg/models"
)

// ProjectConfig builds the render-time project model. Fields the file does
// not set stay empty here and are derived later by the settings package.
func (c *Config) ProjectConfig() *models.ProjectConfig {
	tld := c.ProjectTLD
	if tld == "" {
		tld = DefaultProjectTLD
	}
	return &models.ProjectConfig{
		Name:             c.Name,
		Type:             c.Type,
		AppRoot:          DefaultContainerRoot,
		Docroot:          c.Docroot,
		AbsPath:          path.Join(DefaultContainerRoot, c.Docroot),
		DeployURL:        "https://" + c.Name + "." + tld,
		DatabaseType:     c.Database.Type,
		DatabaseVersion:  c.Database.Version,
		DatabaseHost:     c.Database.Host,
		DatabasePort:     c.Database.Port,
		DatabaseUsername: c.Database.Username,
		DatabasePassword: c.Database.Password,
		DatabaseName:     c.Database.Name,
		DatabasePrefix:   c.Database.Prefix,
		DockerIP:         c.Runtime.DockerIP,
		DBPublishedPort:  c.Runtime.DBPublishedPort,
		HashSalt:         c.HashSalt,
		XHProfMode:       c.XHProfMode,
	}
}
