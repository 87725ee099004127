package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/settingsgen/internal/config"
	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/internal/ui"
	"github.com/modu-ai/settingsgen/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or update .ddev/config.yaml",
	Long: `Create or update the project configuration. On a terminal an
interactive wizard asks for the project name, type, docroot and database.
Flags pre-fill the wizard; with --non-interactive (or without a terminal)
only flags and existing values are used.

Keys in config.yaml that settingsgen does not know about are preserved.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().String("name", "", "Project name (default: existing value or directory name)")
	configCmd.Flags().String("type", "", "Project type: "+joinValues(models.AppTypes()))
	configCmd.Flags().String("docroot", "", "Docroot relative to the project root")
	configCmd.Flags().String("database-type", "", "Database type: "+joinValues(models.DatabaseTypes()))
	configCmd.Flags().Bool("non-interactive", false, "Skip the wizard; use flags and existing values")
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	root, err := projectRootFlag(getStringFlag(cmd, "root"))
	if err != nil {
		return err
	}

	loader := config.NewLoader(deps.Logger)
	dir := loader.ConfigDir(root)
	cfg, err := loader.Load(dir)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		cfg = config.NewDefaultConfig()
	case err != nil:
		return err
	}

	answers := ui.ConfigAnswers{
		Name:         cfg.Name,
		Type:         cfg.Type,
		Docroot:      cfg.Docroot,
		DatabaseType: cfg.Database.Type,
	}
	if answers.Name == "" {
		if abs, err := filepath.Abs(root); err == nil {
			answers.Name = filepath.Base(abs)
		}
	}
	applyConfigFlags(cmd, &answers)

	if !getBoolFlag(cmd, "non-interactive") && !deps.Headless.IsHeadless() {
		wizard := ui.NewConfigWizard(deps.Theme, deps.Headless, nameValidator(cfg))
		result, err := wizard.Run(cmd.Context(), answers)
		if err != nil {
			return err
		}
		answers = *result
	}

	cfg.Name = answers.Name
	cfg.Type = answers.Type
	cfg.Docroot = answers.Docroot
	cfg.Database.Type = answers.DatabaseType
	if err := config.Validate(cfg); err != nil {
		return err
	}

	path := filepath.Join(dir, defs.ConfigYAML)
	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	theme := deps.Theme
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.Card("Configuration saved",
		fmt.Sprintf("%s %s", theme.SymSuccess(), path),
		theme.Muted(fmt.Sprintf("name: %s  type: %s  docroot: %q  database: %s",
			cfg.Name, cfg.Type, cfg.Docroot, cfg.Database.Type)),
	))
	return nil
}

func applyConfigFlags(cmd *cobra.Command, a *ui.ConfigAnswers) {
	if cmd.Flags().Changed("name") {
		a.Name = getStringFlag(cmd, "name")
	}
	if cmd.Flags().Changed("type") {
		a.Type = models.AppType(getStringFlag(cmd, "type"))
	}
	if cmd.Flags().Changed("docroot") {
		a.Docroot = getStringFlag(cmd, "docroot")
	}
	if cmd.Flags().Changed("database-type") {
		a.DatabaseType = models.DatabaseType(getStringFlag(cmd, "database-type"))
	}
}

// nameValidator checks a candidate project name with the same rules the
// loader applies, reporting only problems with the name itself.
func nameValidator(base *config.Config) func(string) error {
	return func(name string) error {
		probe := *base
		probe.Name = name
		var verrs *config.ValidationErrors
		if !errors.As(config.Validate(&probe), &verrs) {
			return nil
		}
		for _, ve := range verrs.Errors {
			if ve.Field == "name" {
				return errors.New(ve.Message)
			}
		}
		return nil
	}
}
