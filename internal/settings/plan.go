// Package settings decides which settings files each app type needs and
// derives the values (salts, drivers, ports) those files are rendered with.
package settings

import (
	"errors"
	"fmt"
	"path"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/template"
	"github.com/modu-ai/settingsgen/pkg/models"
)

// ErrUnsupportedAppType indicates no plan exists for the app type.
var ErrUnsupportedAppType = errors.New("settings: unsupported app type")

// Plan lists the files one provisioning run writes for a project.
type Plan struct {
	AppType models.AppType

	// SettingsDdevFile is the generated file the main settings file includes.
	SettingsDdevFile string

	// Files are deployed in order.
	Files []template.File

	// Include, when set, makes sure the user-owned settings file includes
	// the generated one.
	Include *Include
}

// Targets returns the target paths of every planned file.
func (p *Plan) Targets() []string {
	out := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		out = append(out, f.Target)
	}
	return out
}

// Options adjust plan construction.
type Options struct {
	// DisableSettingsManagement leaves every CMS settings file alone. Only
	// the profiler prepend file is still generated.
	DisableSettingsManagement bool

	// Strict marks every generated file as required, so a user-owned target
	// fails the run instead of being skipped.
	Strict bool
}

type planFunc func(cfg *models.ProjectConfig) *Plan

var planners = map[models.AppType]planFunc{
	models.AppTypeDrupal:    drupalPlan(models.AppTypeDrupal),
	models.AppTypeDrupal7:   drupalPlan(models.AppTypeDrupal7),
	models.AppTypeDrupal6:   drupalPlan(models.AppTypeDrupal6),
	models.AppTypeBackdrop:  drupalPlan(models.AppTypeBackdrop),
	models.AppTypeWordPress: wordpressPlan,
	models.AppTypeTYPO3:     typo3Plan,
	models.AppTypeLaravel:   laravelPlan,
	models.AppTypeMagento:   magentoPlan("magento/local.xml.tmpl"),
	models.AppTypeMagento2:  magentoPlan("magento2/env.php.tmpl"),
	models.AppTypePHP:       func(*models.ProjectConfig) *Plan { return &Plan{} },
}

// PlanFor returns the file plan for cfg.
func PlanFor(cfg *models.ProjectConfig, opts Options) (*Plan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil project config", ErrUnsupportedAppType)
	}
	build, ok := planners[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAppType, cfg.Type)
	}

	p := &Plan{AppType: cfg.Type}
	if !opts.DisableSettingsManagement {
		p = build(cfg)
		p.AppType = cfg.Type
	}

	if cfg.XHProfMode == models.XHProfModePrepend {
		p.Files = append(p.Files, template.File{
			Source: path.Join("xhprof", defs.XHProfPrepend),
			Target: path.Join(defs.ProjectDir, defs.XHProfDir, defs.XHProfPrepend),
		})
	}

	if opts.Strict {
		for i := range p.Files {
			if !p.Files[i].CreateOnly {
				p.Files[i].Required = true
			}
		}
	}
	return p, nil
}

// SiteDir returns the directory holding the app's settings files, relative
// to the project root.
func SiteDir(cfg *models.ProjectConfig) string {
	docroot := path.Clean("./" + cfg.Docroot)
	switch cfg.Type {
	case models.AppTypeDrupal, models.AppTypeDrupal7, models.AppTypeDrupal6:
		return path.Join(docroot, "sites", "default")
	case models.AppTypeTYPO3:
		return path.Join(docroot, "typo3conf")
	// Backdrop keeps settings.php in the docroot itself.
	case models.AppTypeLaravel:
		return defs.ProjectDir
	// Magento reads its configuration from the app root, not the docroot.
	case models.AppTypeMagento, models.AppTypeMagento2:
		return path.Join("app", "etc")
	}
	return docroot
}

func drupalPlan(appType models.AppType) planFunc {
	return func(cfg *models.ProjectConfig) *Plan {
		dir := SiteDir(cfg)
		seed := path.Join(string(appType), "settings.php")
		settingsPath := path.Join(dir, appType.SettingsFile())
		files := []template.File{
			{Source: seed, Target: settingsPath, CreateOnly: true},
			{Source: path.Join(string(appType), defs.DrupalSettingsDdev+".tmpl"), Target: path.Join(dir, defs.DrupalSettingsDdev)},
		}
		// Drush 9+ reads the site URL elsewhere; only Drush 8 sites need drushrc.php.
		if appType != models.AppTypeDrupal {
			files = append(files, template.File{Source: "drush/" + defs.DrushRC + ".tmpl", Target: path.Join(dir, defs.DrushRC)})
		}
		return &Plan{
			SettingsDdevFile: defs.DrupalSettingsDdev,
			Files:            files,
			Include: &Include{
				Target: settingsPath,
				Seed:   seed,
				Needle: defs.DrupalSettingsDdev,
				Stanza: includeStanza(defs.DrupalSettingsDdev),
			},
		}
	}
}

func wordpressPlan(cfg *models.ProjectConfig) *Plan {
	dir := SiteDir(cfg)
	return &Plan{
		SettingsDdevFile: defs.WordPressConfigDdev,
		Files: []template.File{
			{Source: "wordpress/" + defs.WordPressConfigDdev + ".tmpl", Target: path.Join(dir, defs.WordPressConfigDdev)},
			// wp-config.php is only generated while absent or still signed.
			{Source: "wordpress/wp-config.php.tmpl", Target: path.Join(dir, cfg.Type.SettingsFile())},
		},
	}
}

func typo3Plan(cfg *models.ProjectConfig) *Plan {
	return &Plan{
		SettingsDdevFile: defs.TYPO3AdditionalConfig,
		Files: []template.File{
			{Source: "typo3/" + defs.TYPO3AdditionalConfig + ".tmpl", Target: path.Join(SiteDir(cfg), defs.TYPO3AdditionalConfig)},
		},
	}
}

func laravelPlan(cfg *models.ProjectConfig) *Plan {
	return &Plan{
		SettingsDdevFile: defs.LaravelEnvDdev,
		Files: []template.File{
			{Source: "laravel/env.ddev.tmpl", Target: path.Join(SiteDir(cfg), defs.LaravelEnvDdev)},
		},
	}
}

func magentoPlan(source string) planFunc {
	return func(cfg *models.ProjectConfig) *Plan {
		name := cfg.Type.SettingsFile()
		return &Plan{
			SettingsDdevFile: name,
			Files: []template.File{
				// Generated while absent or still signed; a user-owned copy is left alone.
				{Source: source, Target: path.Join(SiteDir(cfg), name)},
			},
		}
	}
}
