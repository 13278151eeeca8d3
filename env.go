package seqopt

import (
	"fmt"
	"os"
	"time"
)

// Environment variable names for configuration.
const (
	// EnvBaseURL is the environment variable for the backend base URL.
	EnvBaseURL = "SEQOPT_BASE_URL"
	// EnvHost is an alias for EnvBaseURL (for compatibility).
	EnvHost = "SEQOPT_HOST"
	// EnvTimeout is the environment variable for the request timeout,
	// parsed as a Go duration string.
	EnvTimeout = "SEQOPT_TIMEOUT"
	// EnvDebug is the environment variable to enable debug mode.
	EnvDebug = "SEQOPT_DEBUG"
)

// NewFromEnv creates a new client using environment variables for
// configuration. It reads SEQOPT_BASE_URL (or SEQOPT_HOST), SEQOPT_TIMEOUT,
// and SEQOPT_DEBUG. When no base URL is set, DefaultBaseURL is used.
//
// Example:
//
//	client, err := seqopt.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewFromEnv(opts ...ConfigOption) (*Client, error) {
	// Prepend env var options so explicit options can override them
	envOpts := make([]ConfigOption, 0, 3)

	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		envOpts = append(envOpts, WithBaseURL(baseURL))
	} else if host := os.Getenv(EnvHost); host != "" {
		envOpts = append(envOpts, WithBaseURL(host))
	}

	if timeout := os.Getenv(EnvTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("seqopt: invalid %s value %q: %w", EnvTimeout, timeout, err)
		}
		envOpts = append(envOpts, WithTimeout(d))
	}

	if debug := os.Getenv(EnvDebug); debug == "true" || debug == "1" {
		envOpts = append(envOpts, WithDebug(true))
	}

	allOpts := append(envOpts, opts...)

	return New(allOpts...)
}
