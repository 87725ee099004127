package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated settings files",
	Long: `Remove every file settingsgen generated that still carries the
"#ddev-generated" marker. Files you have taken over are kept.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	if err := loadProject(cmd); err != nil {
		return err
	}
	result, err := deps.Provisioner.Clean(cmd.Context(), provisionOptions(deps.Config.Get(), false))
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	theme := deps.Theme
	var lines []string
	for _, target := range result.Removed {
		lines = append(lines, fmt.Sprintf("%s removed %s", theme.SymSuccess(), target))
	}
	for _, target := range result.Kept {
		lines = append(lines, fmt.Sprintf("%s kept %s %s", theme.SymWarning(), target, theme.Muted("(user-owned)")))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Muted("no generated files found"))
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.Card("Clean", lines...))
	return nil
}
