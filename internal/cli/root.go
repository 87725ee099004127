package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modu-ai/settingsgen/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "settingsgen",
	Short: "Generate database and environment settings for PHP CMS projects",
	Long: `settingsgen writes the settings files a PHP CMS needs to reach its
database inside a local development environment: settings.ddev.php for
Drupal and Backdrop, wp-config-ddev.php for WordPress,
AdditionalConfiguration.php for TYPO3 and .env.ddev for Laravel.

Generated files carry the "#ddev-generated" marker. Remove the marker from
a file to take ownership of it; settingsgen will never modify it again.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the settingsgen CLI
// @MX:REASON: [AUTO] fan_in=2, called from cmd/settingsgen/main.go and cli tests
// Execute initializes dependencies and runs the root command. SIGINT and
// SIGTERM cancel the command context.
func Execute() error {
	if err := InitDependencies(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %v\n", deps.Theme.SymError(), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("settingsgen %s\n", version.GetVersion()))

	rootCmd.PersistentFlags().String("root", "", "Project root directory (default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colors and animations")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if deps == nil {
			return fmt.Errorf("dependencies not initialized")
		}
		if getBoolFlag(cmd, "no-color") {
			deps.Theme.NoColor = true
		}
		return nil
	}
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// loadProject resolves --root and loads the project configuration.
func loadProject(cmd *cobra.Command) error {
	root, err := projectRootFlag(getStringFlag(cmd, "root"))
	if err != nil {
		return err
	}
	if _, err := deps.LoadProject(root, getBoolFlag(cmd, "verbose")); err != nil {
		return err
	}
	return nil
}
