package doctor

import (
	"context"
	"fmt"

	"github.com/kylehoskins/deploykit/internal/gitrepo"
	"github.com/kylehoskins/deploykit/internal/source"
)

// NetworkCheck probes the remote file source.
type NetworkCheck struct {
	Remote *source.Remote
}

func (c *NetworkCheck) Name() string { return "network" }

func (c *NetworkCheck) Run() CheckResult {
	if err := c.Remote.Probe(context.Background()); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("network: cannot reach %s", c.Remote.Describe()),
			Suggestion: "Check your internet connection, or use --local <dir>",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("network: %s reachable", c.Remote.Describe()),
	}
}

// RepoCheck validates the install target as a git repository.
type RepoCheck struct {
	Target    string
	Validator *gitrepo.Validator
}

func (c *RepoCheck) Name() string { return "repository" }

func (c *RepoCheck) Run() CheckResult {
	v := c.Validator
	if v == nil {
		v = &gitrepo.Validator{}
	}
	info, err := v.Validate(c.Target)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("repository: %s is not usable", c.Target),
			Suggestion: err.Error(),
		}
	}
	if !info.IsRoot(c.Target) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("repository: target %s is not the repository root (%s)", c.Target, info.Root),
			Suggestion: "Files install relative to the target; run from the root unless this is intentional",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("repository: %s (branch %s, remote %s)", info.Root, info.Branch, info.Remote),
	}
}

// LocalSourceCheck validates a --local directory against the manifest.
type LocalSourceCheck struct {
	Local *source.Local
	Files []string
}

func (c *LocalSourceCheck) Name() string { return "local-source" }

func (c *LocalSourceCheck) Run() CheckResult {
	if err := c.Local.ValidateAll(c.Files); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("local source: %s is incomplete or missing", c.Local.Describe()),
			Suggestion: err.Error(),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("local source: %s has all required files", c.Local.Describe()),
	}
}
