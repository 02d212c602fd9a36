// Package installer places the deploykit deliverables into a validated
// target repository. Runs are idempotent: existing files are skipped unless
// force is set, and directory creation tolerates pre-existing directories.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kylehoskins/deploykit/internal/errors"
	"github.com/kylehoskins/deploykit/internal/logger"
	"github.com/kylehoskins/deploykit/internal/manifest"
	"github.com/kylehoskins/deploykit/internal/source"
	"github.com/kylehoskins/deploykit/internal/ui"
)

// Installer installs manifest files into Target using Source.
type Installer struct {
	Target   string
	Source   source.Source
	Manifest *manifest.Manifest
	Force    bool
	UI       *ui.Printer
	Log      logger.Logger
}

// Result tallies per-run outcomes for the final summary and exit status.
type Result struct {
	Installed int
	Skipped   int
	Failed    int

	// FailedFiles lists the relative paths that could not be acquired.
	FailedFiles []string
}

// OK reports overall success. Skips are fine; failures are not.
func (r Result) OK() bool {
	return r.Failed == 0
}

// Summary renders the aggregate count line.
func (r Result) Summary() string {
	return fmt.Sprintf("%d installed, %d skipped, %d failed", r.Installed, r.Skipped, r.Failed)
}

// New creates an installer. A nil log defaults to the env logger.
func New(target string, src source.Source, m *manifest.Manifest, force bool, printer *ui.Printer) *Installer {
	return &Installer{
		Target:   target,
		Source:   src,
		Manifest: m,
		Force:    force,
		UI:       printer,
		Log:      logger.NewEnvLogger("[install]"),
	}
}

// EnsureDirs creates the required subdirectories under the target.
// Pre-existing directories are not an error.
func (in *Installer) EnsureDirs() error {
	for _, d := range in.Manifest.Directories {
		dir := filepath.Join(in.Target, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrInstall,
				fmt.Sprintf("Failed to create directory %s", d),
				"Check permissions on the target repository")
		}
		in.UI.Debug("directory %s ready", d)
	}
	return nil
}

// Run acquires every manifest file, honoring the force flag. It processes
// all files even when some fail, then returns an error if any did.
func (in *Installer) Run(ctx context.Context) (Result, error) {
	var res Result

	for _, f := range in.Manifest.Files() {
		dest := filepath.Join(in.Target, f)

		if !in.Force {
			if _, err := os.Stat(dest); err == nil {
				res.Skipped++
				in.UI.Skip("Skipped %s (already exists, use --force to overwrite)", f)
				continue
			}
		}

		if err := in.installOne(ctx, f, dest); err != nil {
			res.Failed++
			res.FailedFiles = append(res.FailedFiles, f)
			in.Log.Error("install %s: %v", f, err)
			in.UI.Error("Failed to install %s", f)
			in.UI.Debug("%v", err)
			continue
		}
		res.Installed++
		in.UI.Success("Installed %s", f)
	}

	if !res.OK() {
		return res, errors.New(errors.ErrInstall,
			fmt.Sprintf("%d of %d files failed to install", res.Failed, len(in.Manifest.Files())),
			"Re-run deploykit after fixing the cause; files already installed will be skipped")
	}
	return res, nil
}

// installOne acquires one file and moves it into place. Content is staged
// next to the destination and renamed in, so a failed acquisition never
// leaves a partial deliverable behind.
func (in *Installer) installOne(ctx context.Context, relPath, dest string) error {
	data, err := in.Source.Fetch(ctx, relPath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".deploykit-stage-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", relPath, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", relPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", relPath, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage %s: %w", relPath, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move %s into place: %w", relPath, err)
	}
	return nil
}
