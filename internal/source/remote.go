package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kylehoskins/deploykit/internal/errors"
	"github.com/kylehoskins/deploykit/internal/logger"
)

// Remote fetches files from a raw-content base URL. Each file gets up to
// Attempts tries with a fixed Delay between them; a zero-byte payload counts
// as a failed attempt, since a truncated response or an error page must not
// be installed as a deliverable.
type Remote struct {
	BaseURL  string
	Client   *http.Client
	Attempts int
	Delay    time.Duration
	Log      logger.Logger
}

// NewRemote creates a remote source with a per-attempt timeout baked into
// the HTTP client.
func NewRemote(baseURL string, timeout time.Duration, attempts int, delay time.Duration) *Remote {
	return &Remote{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: timeout},
		Attempts: attempts,
		Delay:    delay,
		Log:      logger.NewEnvLogger("[source]"),
	}
}

// Describe returns the base URL.
func (r *Remote) Describe() string {
	return r.BaseURL
}

// URL returns the fetch URL for a relative file path.
func (r *Remote) URL(relPath string) string {
	return r.BaseURL + "/" + strings.TrimLeft(relPath, "/")
}

// Fetch downloads relPath, retrying transport errors, non-200 statuses, and
// empty payloads. The returned error wraps the last attempt's failure.
func (r *Remote) Fetch(ctx context.Context, relPath string) ([]byte, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	url := r.URL(relPath)
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := r.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		r.Log.Debug("fetch %s attempt %d/%d failed: %v", relPath, attempt, attempts, err)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Delay):
		}
	}

	return nil, errors.WrapWithCode(lastErr, errors.ErrSource,
		fmt.Sprintf("Failed to download %s after %d attempts", relPath, attempts),
		"Check your network connection, or install from a checkout with --local <dir>")
}

func (r *Remote) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "deploykit-cli")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("server returned an empty file for %s", url)
	}
	return data, nil
}

// Probe checks that the remote host answers at all. Any HTTP response counts
// as reachable (the base URL itself is a directory and typically 404s); only
// a transport error means the network or host is down.
func (r *Remote) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.BaseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "deploykit-cli")

	resp, err := r.Client.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrNetwork,
			fmt.Sprintf("Cannot reach %s", r.BaseURL),
			"Check your internet connection, or install from a checkout with --local <dir>")
	}
	resp.Body.Close()
	return nil
}
