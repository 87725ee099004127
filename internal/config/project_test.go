package config

import (
	"testing"

	"github.com/modu-ai/settingsgen/pkg/models"
)

func TestConfigProjectConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Docroot = "web"
	cfg.ProjectTLD = "test.local"
	cfg.Database.Port = 3307
	cfg.HashSalt = "salt"
	cfg.XHProfMode = models.XHProfModePrepend
	cfg.Runtime = RuntimeConfig{DockerIP: "10.0.0.2", DBPublishedPort: 40001}

	pc := cfg.ProjectConfig()

	checks := []struct {
		field string
		got   any
		want  any
	}{
		{"Name", pc.Name, "demo"},
		{"Type", pc.Type, models.AppTypeDrupal},
		{"AbsPath", pc.AbsPath, "/var/www/html/web"},
		{"DeployURL", pc.DeployURL, "https://demo.test.local"},
		{"DatabaseHost", pc.DatabaseHost, "db"},
		{"DatabasePort", pc.DatabasePort, 3307},
		{"DatabaseName", pc.DatabaseName, "db"},
		{"DockerIP", pc.DockerIP, "10.0.0.2"},
		{"DBPublishedPort", pc.DBPublishedPort, 40001},
		{"HashSalt", pc.HashSalt, "salt"},
		{"XHProfMode", pc.XHProfMode, models.XHProfModePrepend},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}
}

func TestConfigProjectConfigDefaultTLD(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ProjectTLD = ""
	if got := cfg.ProjectConfig().DeployURL; got != "https://demo.ddev.site" {
		t.Errorf("DeployURL = %q", got)
	}
}
