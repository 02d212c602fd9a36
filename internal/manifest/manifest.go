// Package manifest declares the fixed set of files deploykit installs.
// The set is identical for every run and every source mode; there is no
// dynamic discovery.
package manifest

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var raw []byte

// Manifest lists the deliverables and housekeeping data for an install.
type Manifest struct {
	// Directories are created under the target before any file is written.
	Directories []string `yaml:"directories"`

	// WorkflowFiles are the CI workflow deliverables.
	WorkflowFiles []string `yaml:"workflow_files"`

	// DeployFiles are the server-side deliverables (scripts, config, docs).
	DeployFiles []string `yaml:"deploy_files"`

	// Executables is the subset of files marked executable after install.
	Executables []string `yaml:"executables"`

	// Gitignore lines are appended to the target's .gitignore when absent.
	Gitignore []string `yaml:"gitignore"`
}

// Files returns every deliverable path, workflow files first.
func (m *Manifest) Files() []string {
	files := make([]string, 0, len(m.WorkflowFiles)+len(m.DeployFiles))
	files = append(files, m.WorkflowFiles...)
	files = append(files, m.DeployFiles...)
	return files
}

// IsExecutable reports whether path should carry execute permission.
func (m *Manifest) IsExecutable(path string) bool {
	for _, e := range m.Executables {
		if e == path {
			return true
		}
	}
	return false
}

// Parse decodes and validates a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.WorkflowFiles)+len(m.DeployFiles) == 0 {
		return fmt.Errorf("manifest lists no files")
	}
	if len(m.Directories) == 0 {
		return fmt.Errorf("manifest lists no directories")
	}
	fileSet := make(map[string]struct{})
	for _, f := range m.Files() {
		fileSet[f] = struct{}{}
	}
	for _, e := range m.Executables {
		if _, ok := fileSet[e]; !ok {
			return fmt.Errorf("executable %q is not an installed file", e)
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultM    *Manifest
)

// Default returns the built-in manifest. The embedded document is validated
// at build time by the test suite, so a parse failure here is a programming
// error.
func Default() *Manifest {
	defaultOnce.Do(func() {
		m, err := Parse(raw)
		if err != nil {
			panic(err)
		}
		defaultM = m
	})
	return defaultM
}
