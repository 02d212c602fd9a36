package doctor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/kylehoskins/deploykit/internal/errors"
)

// LookPath resolves a tool name to an executable path. Matches
// exec.LookPath; injectable for tests.
type LookPath func(name string) (string, error)

// RequireGit verifies the git binary is on PATH. Git is the one external
// tool deploykit shells out to; downloads use the built-in HTTP client.
func RequireGit(look LookPath) error {
	if look == nil {
		look = exec.LookPath
	}
	if _, err := look("git"); err != nil {
		return errors.WrapWithCode(err, errors.ErrTools,
			"git is not installed or not on PATH",
			"Install git (https://git-scm.com) and re-run deploykit")
	}
	return nil
}

// GitToolCheck reports git availability and version.
type GitToolCheck struct {
	Look LookPath

	// Version runs `git --version`; injectable for tests.
	Version func() (string, error)
}

func (c *GitToolCheck) Name() string { return "git" }

func (c *GitToolCheck) Run() CheckResult {
	if err := RequireGit(c.Look); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "git: not found on PATH",
			Suggestion: "Install git (https://git-scm.com)",
		}
	}

	version := c.Version
	if version == nil {
		version = gitVersion
	}
	v, err := version()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "git: found, but 'git --version' failed",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("git: %s", v),
	}
}

func gitVersion() (string, error) {
	out, err := exec.Command("git", "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
