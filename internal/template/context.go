package template

import (
	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/pkg/models"
	"github.com/modu-ai/settingsgen/pkg/version"
)

// TemplateContext provides data for rendering settings files. The embedded
// ProjectConfig is copied in, so a render pass cannot mutate the caller's
// configuration; its fields are addressed directly ({{ .DatabaseHost }}).
type TemplateContext struct {
	models.ProjectConfig

	// Generator identifies the release that produced the file.
	Generator string

	// SettingsDdevFile is the generated file the main settings file includes.
	SettingsDdevFile string

	// UploadDir is the public files directory relative to the docroot.
	UploadDir string
}

// ContextOption configures a TemplateContext.
type ContextOption func(*TemplateContext)

// NewTemplateContext creates a TemplateContext from cfg with derived defaults,
// then applies any provided options.
func NewTemplateContext(cfg *models.ProjectConfig, opts ...ContextOption) *TemplateContext {
	ctx := &TemplateContext{
		Generator: version.GeneratorTag(),
	}
	if cfg != nil {
		ctx.ProjectConfig = *cfg
		ctx.UploadDir = cfg.Type.UploadDir()
	}
	if ctx.Signature == "" {
		ctx.Signature = defs.Signature
	}

	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithSettingsDdevFile sets the name of the included ddev settings file.
func WithSettingsDdevFile(name string) ContextOption {
	return func(c *TemplateContext) {
		c.SettingsDdevFile = name
	}
}

// WithGenerator overrides the generator tag (used by tests for stable output).
func WithGenerator(tag string) ContextOption {
	return func(c *TemplateContext) {
		c.Generator = tag
	}
}

// WithUploadDir overrides the upload directory.
func WithUploadDir(dir string) ContextOption {
	return func(c *TemplateContext) {
		c.UploadDir = dir
	}
}
