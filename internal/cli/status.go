package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/settingsgen/internal/provision"
	"github.com/modu-ai/settingsgen/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which settings files are generated, user-owned or missing",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("markdown", false, "Print the report as a markdown table")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := loadProject(cmd); err != nil {
		return err
	}
	cfg := deps.Config.Get()
	report, err := deps.Provisioner.Status(provisionOptions(cfg, false))
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	out := cmd.OutOrStdout()
	if getBoolFlag(cmd, "markdown") {
		rendered, err := ui.RenderMarkdown(deps.Theme, deps.Headless, statusMarkdown(report))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, rendered)
		return nil
	}
	printStatus(out, deps.Theme, report)
	return nil
}

func stateLabel(st provision.FileStatus) string {
	label := string(st.State)
	if st.Drifted {
		label += ", modified"
	}
	if !st.Planned {
		label += ", stale"
	}
	return label
}

func printStatus(w io.Writer, theme *ui.Theme, r *provision.StatusReport) {
	lines := make([]string, 0, len(r.Files)+1)
	for _, f := range r.Files {
		sym := theme.SymSuccess()
		switch {
		case f.State == provision.StateAbsent:
			sym = theme.SymPending()
		case f.State == provision.StateUserOwned, f.Drifted:
			sym = theme.SymWarning()
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", sym, f.Target, theme.Muted("("+stateLabel(f)+")")))
	}
	if r.UploadDir != "" {
		lines = append(lines, "", theme.Muted("upload dir: "+r.UploadDir))
	}
	_, _ = fmt.Fprintln(w, theme.Card(fmt.Sprintf("%s (%s)", r.Name, r.AppType), lines...))
}

// statusMarkdown renders the report as a markdown document.
func statusMarkdown(r *provision.StatusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	fmt.Fprintf(&b, "Type: `%s`", r.AppType)
	if r.UploadDir != "" {
		fmt.Fprintf(&b, ", upload dir: `%s`", r.UploadDir)
	}
	b.WriteString("\n\n| File | State | Provenance |\n|---|---|---|\n")
	for _, f := range r.Files {
		prov := string(f.Provenance)
		if prov == "" {
			prov = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", f.Target, stateLabel(f), prov)
	}
	return b.String()
}
