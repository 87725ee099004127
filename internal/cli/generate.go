package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modu-ai/settingsgen/internal/config"
	"github.com/modu-ai/settingsgen/internal/fileguard"
	"github.com/modu-ai/settingsgen/internal/provision"
	"github.com/modu-ai/settingsgen/internal/settings"
	"github.com/modu-ai/settingsgen/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CMS settings files for the project",
	Long: `Render the settings files for the configured project type and write
them into the project. Files without the "#ddev-generated" marker are
left untouched and reported as skipped.

With --strict, a skipped file is an error instead of a warning.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Bool("strict", false, "Fail when a settings file is user-owned instead of skipping it")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if err := loadProject(cmd); err != nil {
		return err
	}
	cfg := deps.Config.Get()
	out := cmd.OutOrStdout()

	spin := ui.NewSpinner(deps.Theme, deps.Headless, out,
		fmt.Sprintf("Generating %s settings for %s", cfg.Type, cfg.Name))
	result, err := deps.Provisioner.Provision(cmd.Context(), provisionOptions(cfg, getBoolFlag(cmd, "strict")))
	spin.Stop()

	if result != nil {
		printResult(out, deps.Theme, result)
	}
	if err != nil {
		var nm *fileguard.NotManagedError
		if errors.As(err, &nm) {
			return fmt.Errorf("%s is user-owned (no %q marker); remove --strict or restore the marker: %w",
				nm.Path, nm.Signature, err)
		}
		return fmt.Errorf("generate settings: %w", err)
	}
	return nil
}

func provisionOptions(cfg *config.Config, strict bool) provision.Options {
	return provision.Options{
		ProjectRoot:               deps.Config.Root(),
		Project:                   cfg.ProjectConfig(),
		DisableSettingsManagement: cfg.DisableSettingsManagement,
		Strict:                    strict,
	}
}

// printResult writes one line per file followed by warnings.
func printResult(w io.Writer, theme *ui.Theme, r *provision.Result) {
	var lines []string
	for _, target := range r.Written {
		lines = append(lines, fmt.Sprintf("%s %s", theme.SymSuccess(), target))
	}
	for _, target := range r.Unchanged {
		lines = append(lines, fmt.Sprintf("%s %s %s", theme.SymPending(), target, theme.Muted("(unchanged)")))
	}
	for _, s := range r.Skipped {
		lines = append(lines, fmt.Sprintf("%s %s %s", theme.SymWarning(), s.Target, theme.Muted("(user-owned, not modified)")))
	}
	switch r.Include {
	case settings.IncludeAppended:
		lines = append(lines, fmt.Sprintf("%s include stanza added to settings file", theme.SymSuccess()))
	case settings.IncludeSeeded:
		lines = append(lines, fmt.Sprintf("%s settings file created with include stanza", theme.SymSuccess()))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Muted("nothing to write"))
	}

	_, _ = fmt.Fprintln(w, theme.Card(fmt.Sprintf("Settings (%s)", r.AppType), lines...))
	for _, warning := range r.Warnings {
		_, _ = fmt.Fprintf(w, "%s %s\n", theme.SymWarning(), warning)
	}
}
