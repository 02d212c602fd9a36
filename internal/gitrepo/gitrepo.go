// Package gitrepo validates that an install target is a usable git
// repository and collects diagnostic metadata about it.
package gitrepo

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kylehoskins/deploykit/internal/errors"
)

// Sentinels reported when the working tree has no named branch or remote.
// Both are diagnostics only, never failures.
const (
	BranchDetached = "detached"
	RemoteNone     = "none"
)

// Info holds non-fatal diagnostic metadata about a validated repository.
type Info struct {
	// Root is the repository top-level directory.
	Root string

	// Branch is the current branch name, or BranchDetached.
	Branch string

	// Remote is the origin URL, or RemoteNone.
	Remote string
}

// Runner executes git with the given arguments in dir and returns trimmed
// stdout. Satisfied by Git and test fakes.
type Runner func(dir string, args ...string) (string, error)

// Git runs the real git binary.
func Git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Validator checks install targets. The zero value uses the real git binary.
type Validator struct {
	Run Runner
}

func (v *Validator) runner() Runner {
	if v.Run != nil {
		return v.Run
	}
	return Git
}

// Validate confirms that path exists, is an accessible and writable
// directory, and is inside a git repository. Checks run in order and the
// first failure is returned as a structured error with a remediation hint.
func (v *Validator) Validate(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrRepo,
				fmt.Sprintf("Target directory does not exist: %s", path),
				"Check the path, or clone the repository first")
		}
		return nil, errors.WrapWithCode(err, errors.ErrRepo,
			fmt.Sprintf("Cannot access target directory: %s", path),
			"Check directory permissions")
	}
	if !fi.IsDir() {
		return nil, errors.New(errors.ErrRepo,
			fmt.Sprintf("Target is not a directory: %s", path),
			"Point deploykit at the repository directory, not a file")
	}

	if _, err := os.ReadDir(path); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRepo,
			fmt.Sprintf("Target directory is not readable: %s", path),
			"Check directory permissions")
	}

	run := v.runner()

	root, err := run(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRepo,
			fmt.Sprintf("Not a git repository: %s", path),
			"Run 'git init' in the target directory, or point deploykit at an existing repository")
	}

	if err := checkWritable(path); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRepo,
			fmt.Sprintf("Target directory is not writable: %s", path),
			"Check directory permissions")
	}

	info := &Info{Root: root, Branch: BranchDetached, Remote: RemoteNone}

	// Branch and remote are gathered best-effort for diagnostics. A detached
	// HEAD or missing origin is normal in fresh clones and CI checkouts.
	if branch, err := run(path, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && branch != "HEAD" && branch != "" {
		info.Branch = branch
	}
	if remote, err := run(path, "remote", "get-url", "origin"); err == nil && remote != "" {
		info.Remote = remote
	}

	return info, nil
}

// IsRoot reports whether target is the repository root itself. A subdirectory
// target is valid but worth a warning, since files land relative to target.
func (i *Info) IsRoot(target string) bool {
	root, err := filepath.EvalSymlinks(i.Root)
	if err != nil {
		root = filepath.Clean(i.Root)
	}
	dir, err := filepath.EvalSymlinks(target)
	if err != nil {
		dir = filepath.Clean(target)
	}
	return root == dir
}

// checkWritable verifies write access by creating and removing a probe file.
// Cheaper permission-bit checks miss ACLs and read-only mounts.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".deploykit-write-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
