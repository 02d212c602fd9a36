// Package config builds the immutable per-run options for deploykit.
// Flags are parsed by the CLI layer; tunables that rarely change (base URL,
// fetch timeout, retry policy) can be overridden through DEPLOYKIT_*
// environment variables.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/kylehoskins/deploykit/internal/errors"
)

const (
	// DefaultBaseURL is the canonical raw-content location of the deploykit
	// deliverables. Each relative file path is joined onto it.
	DefaultBaseURL = "https://raw.githubusercontent.com/kylehoskins/deploykit/main"

	// DefaultFetchTimeout bounds a single download attempt.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultFetchAttempts is the total number of tries per file.
	DefaultFetchAttempts = 3

	// DefaultFetchDelay is the fixed pause between attempts.
	DefaultFetchDelay = 2 * time.Second

	// EnvPrefix namespaces environment overrides (DEPLOYKIT_BASE_URL etc).
	EnvPrefix = "DEPLOYKIT"
)

// Options holds everything a run needs, constructed once by the entry point
// and passed by value into every component. There is no other mutable state.
type Options struct {
	// Target is the absolute path of the repository to install into.
	Target string

	// Force overwrites files that already exist at the target.
	Force bool

	// Quiet suppresses all non-error output.
	Quiet bool

	// Verbose enables additional diagnostic output.
	Verbose bool

	// NoColor disables ANSI color in output.
	NoColor bool

	// LocalDir, when set, acquires files from this directory instead of the
	// network. Empty means remote mode.
	LocalDir string

	// BaseURL is the remote location files are fetched from.
	BaseURL string

	// FetchTimeout bounds each download attempt.
	FetchTimeout time.Duration

	// FetchAttempts is the total tries per file (minimum 1).
	FetchAttempts int

	// FetchDelay is the pause between download attempts.
	FetchDelay time.Duration
}

// Remote reports whether files are acquired over the network.
func (o Options) Remote() bool {
	return o.LocalDir == ""
}

// FromEnv returns Options populated with defaults and any DEPLOYKIT_*
// environment overrides. Flag values are layered on top by the CLI.
func FromEnv() (Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("fetch_attempts", DefaultFetchAttempts)
	v.SetDefault("fetch_delay", DefaultFetchDelay)

	opts := Options{
		BaseURL:       v.GetString("base_url"),
		FetchTimeout:  v.GetDuration("fetch_timeout"),
		FetchAttempts: v.GetInt("fetch_attempts"),
		FetchDelay:    v.GetDuration("fetch_delay"),
	}

	if opts.BaseURL == "" {
		return Options{}, errors.New(errors.ErrNetwork,
			"DEPLOYKIT_BASE_URL is set but empty",
			"Unset it to use the default, or point it at a raw-content base URL")
	}
	if opts.FetchAttempts < 1 {
		opts.FetchAttempts = 1
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.FetchDelay < 0 {
		opts.FetchDelay = 0
	}

	return opts, nil
}
