package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kylehoskins/deploykit/internal/errors"
)

// Local copies files from a directory on disk, typically a deploykit
// checkout. The directory is validated once, up front, before any file is
// written to the target.
type Local struct {
	Dir string
}

// NewLocal creates a local source rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

// Describe returns the source directory.
func (l *Local) Describe() string {
	return l.Dir
}

// ValidateAll confirms the source directory exists and contains every
// required relative path. All missing paths are reported together so one
// run surfaces the full gap, not just the first file.
func (l *Local) ValidateAll(files []string) error {
	fi, err := os.Stat(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrSource,
				fmt.Sprintf("Local source directory does not exist: %s", l.Dir),
				"Point --local at a deploykit checkout")
		}
		return errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Cannot access local source directory: %s", l.Dir),
			"Check directory permissions")
	}
	if !fi.IsDir() {
		return errors.New(errors.ErrSource,
			fmt.Sprintf("Local source is not a directory: %s", l.Dir),
			"Point --local at a deploykit checkout")
	}

	var missing []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(l.Dir, f)); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrSource,
			fmt.Sprintf("Local source is missing %d required file(s):\n    %s",
				len(missing), strings.Join(missing, "\n    ")),
			"Use a complete deploykit checkout, or omit --local to download")
	}
	return nil
}

// Fetch reads relPath from the source directory.
func (l *Local) Fetch(_ context.Context, relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, relPath))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Failed to copy %s from local source", relPath),
			"Check the file exists and is readable")
	}
	return data, nil
}
