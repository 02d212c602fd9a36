package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kylehoskins/deploykit/internal/config"
	"github.com/kylehoskins/deploykit/internal/doctor"
	"github.com/kylehoskins/deploykit/internal/errors"
	"github.com/kylehoskins/deploykit/internal/manifest"
	"github.com/kylehoskins/deploykit/internal/source"
	"github.com/kylehoskins/deploykit/internal/ui"
)

var doctorLocalFlag string

// doctorCmd runs the install-time validations without installing anything.
var doctorCmd = &cobra.Command{
	Use:   "doctor [target-dir]",
	Short: "Check prerequisites without installing",
	Long: `Run the same validations the installer performs, without writing
any files: git availability, target repository state, and either network
reachability or local source completeness.

Examples:
  deploykit doctor
  deploykit doctor ~/code/myapp
  deploykit doctor --local ~/code/deploykit`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		return doctorCommand(target)
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorLocalFlag, "local", "", "check a local deploykit checkout instead of the network")
	rootCmd.AddCommand(doctorCmd)
}

func doctorCommand(targetArg string) error {
	opts, err := config.FromEnv()
	if err != nil {
		return err
	}

	target, err := filepath.Abs(targetArg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRepo,
			"Cannot resolve target directory: "+targetArg,
			"Check the path is valid")
	}

	m := manifest.Default()
	checks := []doctor.Check{
		&doctor.GitToolCheck{},
		&doctor.RepoCheck{Target: target},
	}
	if doctorLocalFlag != "" {
		local, err := filepath.Abs(doctorLocalFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrSource,
				"Cannot resolve local source directory: "+doctorLocalFlag,
				"Check the path is valid")
		}
		checks = append(checks, &doctor.LocalSourceCheck{
			Local: source.NewLocal(local),
			Files: m.Files(),
		})
	} else {
		checks = append(checks, &doctor.NetworkCheck{
			Remote: source.NewRemote(opts.BaseURL, opts.FetchTimeout, opts.FetchAttempts, opts.FetchDelay),
		})
	}

	results := doctor.RunAll(checks)
	renderResults(results)

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrTools,
			doctor.Summary(results),
			"Fix the failing checks above and re-run 'deploykit doctor'")
	}
	fmt.Println(doctor.Summary(results))
	return nil
}

func renderResults(results []doctor.CheckResult) {
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	for _, r := range results {
		var symbol string
		switch r.Status {
		case doctor.StatusPass:
			symbol = lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render(ui.SymbolSuccess)
		case doctor.StatusWarn:
			symbol = lipgloss.NewStyle().Foreground(ui.ColorWarning).Render(ui.SymbolWarning)
		default:
			symbol = lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail)
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", symbol, r.Message)
		if r.Suggestion != "" && r.Status != doctor.StatusPass {
			fmt.Fprintf(os.Stdout, "%s\n", mutedStyle.Render("  "+r.Suggestion))
		}
	}
}
