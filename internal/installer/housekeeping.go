package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkExecutables sets execute permission on the manifest's script files.
// Failures are returned for the caller to log as warnings; the scripts can
// be chmodded by hand later, so this never aborts a run.
func (in *Installer) MarkExecutables() []error {
	var errs []error
	for _, f := range in.Manifest.Executables {
		dest := filepath.Join(in.Target, f)
		if err := os.Chmod(dest, 0o755); err != nil {
			errs = append(errs, fmt.Errorf("chmod +x %s: %w", f, err))
			continue
		}
		in.UI.Debug("marked %s executable", f)
	}
	return errs
}

// UpdateGitignore appends the manifest's ignore entries to the target's
// .gitignore, skipping any already present as an exact line match. Existing
// lines are never rewritten or reordered; the file is created if absent.
// Returns the entries that were added.
func (in *Installer) UpdateGitignore() ([]string, error) {
	path := filepath.Join(in.Target, ".gitignore")

	existing := make(map[string]struct{})
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		for _, line := range strings.Split(string(content), "\n") {
			existing[line] = struct{}{}
		}
	case os.IsNotExist(err):
		// Created below on first append.
	default:
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}

	var missing []string
	for _, entry := range in.Manifest.Gitignore {
		if _, ok := existing[entry]; !ok {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open .gitignore: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		b.WriteString("\n")
	}
	for _, entry := range missing {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, fmt.Errorf("append to .gitignore: %w", err)
	}
	return missing, nil
}
