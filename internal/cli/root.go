package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Root command flags
var (
	forceFlag   bool
	quietFlag   bool
	verboseFlag bool
	noColorFlag bool
	localFlag   string
)

// rootCmd installs the deploykit deliverables into a target repository.
var rootCmd = &cobra.Command{
	Use:   "deploykit [target-dir]",
	Short: "Install push-to-deploy automation into a git repository",
	Long: `Install the deploykit deliverables into a git repository:

  - a GitHub Actions deploy workflow
  - the server-side pull script and key-setup helper
  - a config example and documentation

Files are downloaded from the canonical deploykit repository, or copied
from a local checkout with --local. Existing files are left untouched
unless --force is given, so re-running is always safe.

Examples:
  deploykit
  deploykit ~/code/myapp
  deploykit --force
  deploykit --local ~/code/deploykit ~/code/myapp`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		return installCommand(target)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "overwrite existing destination files")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-error output")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "emit additional diagnostic output")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable ANSI color in output")
	rootCmd.Flags().StringVar(&localFlag, "local", "", "copy files from a local deploykit checkout instead of downloading")
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
