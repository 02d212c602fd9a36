// Package source abstracts where deliverable files come from: the canonical
// raw-content URL, or a local checkout. The strategy is chosen once per run
// and used for every file.
package source

import "context"

// Source acquires deliverable files by repository-relative path.
type Source interface {
	// Fetch returns the contents of the file at relPath.
	Fetch(ctx context.Context, relPath string) ([]byte, error)

	// Describe returns a human-readable origin for status output.
	Describe() string
}
