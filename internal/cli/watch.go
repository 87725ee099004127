package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modu-ai/settingsgen/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate settings whenever .ddev/config.yaml changes",
	Long: `Generate settings once, then watch .ddev/config.yaml and regenerate
after every change until interrupted. An invalid configuration is reported
and the previous settings stay in place.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("strict", false, "Fail when a settings file is user-owned instead of skipping it")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := loadProject(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	strict := getBoolFlag(cmd, "strict")

	generate := func(cfg *config.Config) {
		result, err := deps.Provisioner.Provision(ctx, provisionOptions(cfg, strict))
		if result != nil {
			printResult(out, deps.Theme, result)
		}
		if err != nil && ctx.Err() == nil {
			printWatchError(out, err)
		}
	}

	generate(deps.Config.Get())
	if err := deps.Config.Watch(func(cfg config.Config) { generate(&cfg) }); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s watching %s\n", deps.Theme.SymPending(), deps.Theme.Primary(deps.Config.Path()))
	return deps.Config.WatchFile(ctx, func(err error) { printWatchError(out, err) })
}

func printWatchError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %v\n", deps.Theme.SymError(), err)
}
