// Package config provides configuration for cliplight. Values come from
// environment variables with sensible defaults; a .env file in the working
// directory is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultBackendURL     = "http://localhost:8000"
	DefaultLogLevel       = "info"
	DefaultDataDir        = ".cliplight"
	DefaultRequestTimeout = 300 // seconds; analysis responses are slow

	// Environment variable names
	EnvBackendURL     = "CLIPLIGHT_BACKEND_URL"
	EnvLogLevel       = "CLIPLIGHT_LOG_LEVEL"
	EnvDataDir        = "CLIPLIGHT_DATA_DIR"
	EnvOutputDir      = "CLIPLIGHT_OUTPUT_DIR"
	EnvRequestTimeout = "CLIPLIGHT_REQUEST_TIMEOUT"
	EnvMockMode       = "CLIPLIGHT_MOCK"

	// Keyring identifiers for the backend auth token
	KeyringService = "cliplight"
	KeyringUser    = "backend-token"

	// Log filename inside the data directory
	LogFilename = "cliplight.log"
)

// Config defines the application configuration interface
type Config interface {
	BackendURL() string
	LogLevel() string
	DataDir() string
	LogPath() string
	OutputDir() string
	RequestTimeout() time.Duration
	MockMode() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	backendURL     string
	logLevel       string
	dataDir        string
	outputDir      string
	requestTimeout time.Duration
	mockMode       bool
}

// Load reads an optional .env file and then builds the configuration from the
// environment. A missing .env file is not an error.
func Load() (*EnvConfig, error) {
	_ = godotenv.Load()
	return New()
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		backendURL:     DefaultBackendURL,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		requestTimeout: DefaultRequestTimeout * time.Second,
	}

	if u := os.Getenv(EnvBackendURL); u != "" {
		cfg.backendURL = u
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if od := os.Getenv(EnvOutputDir); od != "" {
		cfg.outputDir = od
	}

	if rt := os.Getenv(EnvRequestTimeout); rt != "" {
		secs, err := strconv.Atoi(rt)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		if secs < 1 {
			return nil, fmt.Errorf("invalid %s: timeout must be at least 1 second", EnvRequestTimeout)
		}
		cfg.requestTimeout = time.Duration(secs) * time.Second
	}

	if mm := os.Getenv(EnvMockMode); mm != "" {
		mock, err := strconv.ParseBool(mm)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvMockMode, err)
		}
		cfg.mockMode = mock
	}

	return cfg, nil
}

// BackendURL returns the analysis backend base URL
func (c *EnvConfig) BackendURL() string {
	return c.backendURL
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// LogPath returns the full path to the log file
func (c *EnvConfig) LogPath() string {
	return filepath.Join(c.dataDir, LogFilename)
}

// OutputDir returns the directory generated videos are saved to
func (c *EnvConfig) OutputDir() string {
	if c.outputDir != "" {
		return c.outputDir
	}
	return filepath.Join(c.dataDir, "output")
}

// RequestTimeout returns the per-request HTTP timeout
func (c *EnvConfig) RequestTimeout() time.Duration {
	return c.requestTimeout
}

// MockMode reports whether the in-process mock backend should be used
func (c *EnvConfig) MockMode() bool {
	return c.mockMode
}

// SetMockMode overrides mock mode; the -mock flag takes precedence over the
// environment.
func (c *EnvConfig) SetMockMode(on bool) {
	c.mockMode = on
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
