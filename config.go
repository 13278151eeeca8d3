package seqopt

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	// DefaultBaseURL is the base URL used when none is configured.
	// It matches the backend's local development address.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retry attempts
	// for idempotent requests.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the default initial delay between retry attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	// MaxTimeout is the maximum allowed request timeout.
	MaxTimeout = 5 * time.Minute

	// MaxMaxRetries is the maximum allowed retry count.
	MaxMaxRetries = 10
)

// Config holds the configuration for the seqopt client.
type Config struct {
	// BaseURL is the base URL for the optimization backend.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	// If not set, a default client with the configured timeout is used.
	HTTPClient *http.Client

	// Timeout is the request timeout.
	// Defaults to 30 seconds if not set. A timed-out request surfaces as an
	// ordinary backend failure for the operation that issued it.
	Timeout time.Duration

	// MaxRetries is the maximum number of transport-level retry attempts
	// for idempotent (GET) requests. Mutating lifecycle operations are
	// never retried automatically. Defaults to 2 if not set.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// Defaults to 500ms if not set; the delay doubles per attempt.
	RetryDelay time.Duration

	// Debug enables request/response debug logging.
	Debug bool

	// Logger is used for SDK logging (printf-style).
	// If nil, logging is disabled unless Debug is true.
	// For structured logging, use StructuredLogger instead.
	Logger Logger

	// StructuredLogger is used for structured SDK logging.
	// If set, this takes precedence over Logger.
	// Compatible with slog.Logger via NewSlogAdapter().
	StructuredLogger StructuredLogger
}

// String returns a string representation of the config.
// This is safe to use in logs and debug output.
func (c *Config) String() string {
	return fmt.Sprintf("Config{BaseURL: %q, Timeout: %v, MaxRetries: %d, Debug: %v}",
		c.BaseURL, c.Timeout, c.MaxRetries, c.Debug)
}

// applyDefaults sets default values for unset configuration options.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}

	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}

	if c.Debug && c.Logger == nil && c.StructuredLogger == nil {
		c.Logger = &defaultLogger{
			logger: log.New(os.Stderr, "seqopt: ", log.LstdFlags),
		}
	}

	if c.StructuredLogger == nil {
		if c.Logger != nil {
			c.StructuredLogger = WrapPrintfLogger(c.Logger)
		} else {
			c.StructuredLogger = NopLogger{}
		}
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// validate checks that the configuration is valid.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("seqopt: invalid base URL %q: %w", c.BaseURL, ErrInvalidConfig)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("seqopt: base URL must use http or https, got %q: %w", c.BaseURL, ErrInvalidConfig)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("seqopt: timeout cannot be negative, got %v: %w", c.Timeout, ErrInvalidConfig)
	}
	if c.Timeout > MaxTimeout {
		return fmt.Errorf("seqopt: timeout cannot exceed %v, got %v: %w", MaxTimeout, c.Timeout, ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("seqopt: max retries cannot be negative, got %d: %w", c.MaxRetries, ErrInvalidConfig)
	}
	if c.MaxRetries > MaxMaxRetries {
		return fmt.Errorf("seqopt: max retries cannot exceed %d, got %d: %w", MaxMaxRetries, c.MaxRetries, ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("seqopt: retry delay cannot be negative, got %v: %w", c.RetryDelay, ErrInvalidConfig)
	}

	return nil
}

// fileConfig is the YAML shape accepted by LoadConfigFile.
type fileConfig struct {
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
	Debug      bool   `yaml:"debug"`
}

// LoadConfigFile reads a YAML configuration file and returns the equivalent
// ConfigOptions. Explicit options passed after these override the file's
// values.
//
// Accepted keys:
//
//	base_url: http://localhost:8000/api
//	timeout: 30s
//	max_retries: 2
//	retry_delay: 500ms
//	debug: false
func LoadConfigFile(path string) ([]ConfigOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seqopt: failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("seqopt: failed to parse config file %s: %w", path, err)
	}

	opts := make([]ConfigOption, 0, 5)
	if fc.BaseURL != "" {
		opts = append(opts, WithBaseURL(fc.BaseURL))
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("seqopt: invalid timeout in config file: %w", err)
		}
		opts = append(opts, WithTimeout(d))
	}
	if fc.MaxRetries != nil {
		opts = append(opts, WithMaxRetries(*fc.MaxRetries))
	}
	if fc.RetryDelay != "" {
		d, err := time.ParseDuration(fc.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("seqopt: invalid retry_delay in config file: %w", err)
		}
		opts = append(opts, WithRetryDelay(d))
	}
	if fc.Debug {
		opts = append(opts, WithDebug(true))
	}
	return opts, nil
}
