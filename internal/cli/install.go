package cli

import (
	"context"
	"path/filepath"

	"github.com/kylehoskins/deploykit/internal/config"
	"github.com/kylehoskins/deploykit/internal/doctor"
	"github.com/kylehoskins/deploykit/internal/errors"
	"github.com/kylehoskins/deploykit/internal/gitrepo"
	"github.com/kylehoskins/deploykit/internal/installer"
	"github.com/kylehoskins/deploykit/internal/manifest"
	"github.com/kylehoskins/deploykit/internal/source"
	"github.com/kylehoskins/deploykit/internal/ui"
)

// installCommand builds the run options from flags and environment, then
// drives the install pipeline.
func installCommand(targetArg string) error {
	opts, err := config.FromEnv()
	if err != nil {
		return err
	}

	opts.Force = forceFlag
	opts.Quiet = quietFlag
	opts.Verbose = verboseFlag
	opts.NoColor = noColorFlag

	opts.Target, err = filepath.Abs(targetArg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRepo,
			"Cannot resolve target directory: "+targetArg,
			"Check the path is valid")
	}
	if localFlag != "" {
		opts.LocalDir, err = filepath.Abs(localFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrSource,
				"Cannot resolve local source directory: "+localFlag,
				"Check the path is valid")
		}
	}

	if opts.NoColor {
		ui.DisableColor()
	} else {
		ui.AutoColor()
	}

	printer := ui.Default(opts.Quiet, opts.Verbose)
	return runInstall(context.Background(), opts, printer)
}

// runInstall executes the pipeline stages in order. Validation and
// acquisition failures abort; permission and .gitignore problems degrade
// to warnings.
func runInstall(ctx context.Context, opts config.Options, printer *ui.Printer) error {
	m := manifest.Default()

	printer.Step("Checking prerequisites")
	if err := doctor.RequireGit(nil); err != nil {
		return err
	}
	printer.Debug("git found on PATH")

	printer.Step("Validating target repository")
	validator := &gitrepo.Validator{}
	info, err := validator.Validate(opts.Target)
	if err != nil {
		return err
	}
	printer.Debug("repository root: %s", info.Root)
	printer.Debug("branch: %s, remote: %s", info.Branch, info.Remote)
	if !info.IsRoot(opts.Target) {
		printer.Warn("Target %s is not the repository root (%s); files install relative to the target", opts.Target, info.Root)
	}
	if info.Branch == gitrepo.BranchDetached {
		printer.Warn("Repository is in a detached HEAD state")
	}
	if info.Remote == gitrepo.RemoteNone {
		printer.Warn("Repository has no 'origin' remote configured")
	}

	var src source.Source
	if opts.Remote() {
		remote := source.NewRemote(opts.BaseURL, opts.FetchTimeout, opts.FetchAttempts, opts.FetchDelay)
		printer.Step("Checking network reachability")
		if err := remote.Probe(ctx); err != nil {
			return err
		}
		src = remote
	} else {
		printer.Step("Validating local source")
		local := source.NewLocal(opts.LocalDir)
		if err := local.ValidateAll(m.Files()); err != nil {
			return err
		}
		src = local
	}

	in := installer.New(opts.Target, src, m, opts.Force, printer)

	printer.Step("Creating directories")
	if err := in.EnsureDirs(); err != nil {
		return err
	}

	printer.Step("Installing files from %s", src.Describe())
	res, err := in.Run(ctx)
	if err != nil {
		return err
	}

	for _, werr := range in.MarkExecutables() {
		printer.Warn("Could not set execute permission: %v", werr)
	}

	added, gerr := in.UpdateGitignore()
	if gerr != nil {
		printer.Warn(".gitignore not updated: %v", gerr)
	}
	for _, entry := range added {
		printer.Success("Added %s to .gitignore", entry)
	}

	printer.Success("Done: %s", res.Summary())
	printNextSteps(printer)
	return nil
}

func printNextSteps(printer *ui.Printer) {
	printer.Info("")
	printer.Info("Next steps:")
	printer.Info("  1. Copy deploy/deploy.conf.example to deploy/deploy.conf on your server and edit it")
	printer.Info("  2. Run deploy/setup-keys.sh on your server to generate deploy keys")
	printer.Info("  3. Add the deploy key and host secrets to your GitHub repository settings")
	printer.Info("  4. Commit the new files and push to trigger your first deploy")
	printer.Info("")
	printer.Info("See deploy/README.md for details.")
}
