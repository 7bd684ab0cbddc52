// Package config loads docver settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML or
// YAML file, and DOCVER_* environment variables. Command-line flags are
// applied on top by the CLI. A missing file is not an error.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/docver/pkg/buildinfo"
	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/integrations"
)

const (
	// DefaultBaseURL is the repository the documentation was written against.
	DefaultBaseURL = "http://maven.arachne-framework.org/artifactory"

	// DefaultGroup is the path component after "/org/" in artifact URIs.
	DefaultGroup = "arachne-framework"

	// DefaultConcurrency bounds in-flight searches per document.
	DefaultConcurrency = 8

	appName = "docver"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvBaseURL     = "DOCVER_BASE_URL"
	EnvGroup       = "DOCVER_GROUP"
	EnvTimeout     = "DOCVER_TIMEOUT"
	EnvConcurrency = "DOCVER_CONCURRENCY"
)

// Config holds the effective settings.
type Config struct {
	// BaseURL is the repository root; the search API lives below it.
	BaseURL string

	// Group restricts accepted artifact URIs. Empty accepts any group.
	Group string

	// ErrorMarker replaces placeholders that could not be resolved.
	// Empty means "<<API ERROR: HOST>>" with the host of BaseURL.
	ErrorMarker string

	// Concurrency is the number of searches run at once per document.
	Concurrency int

	// Timeout bounds each search request. Zero means no limit.
	Timeout time.Duration

	// UserAgent is sent with every search request.
	UserAgent string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Group:       DefaultGroup,
		Concurrency: DefaultConcurrency,
		UserAgent:   appName + "/" + buildinfo.Version,
	}
}

// Marker returns the error marker, deriving it from BaseURL when unset.
func (c *Config) Marker() string {
	if c.ErrorMarker != "" {
		return c.ErrorMarker
	}
	return "<<API ERROR: " + integrations.Host(c.BaseURL) + ">>"
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return derrors.New(derrors.ErrCodeInvalidConfig, "base_url must not be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return derrors.New(derrors.ErrCodeInvalidConfig, "base_url %q must be an http(s) URL", c.BaseURL)
	}
	if c.Group != "" && strings.Contains(c.Group, "/") {
		return derrors.New(derrors.ErrCodeInvalidConfig, "group %q must be a single path component", c.Group)
	}
	if c.Concurrency < 1 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return derrors.New(derrors.ErrCodeInvalidConfig, "timeout must not be negative")
	}
	return nil
}

// fileConfig is the on-disk shape. Timeout is kept as text so both formats
// accept "30s" style values.
type fileConfig struct {
	BaseURL     string `toml:"base_url" yaml:"base_url"`
	Group       string `toml:"group" yaml:"group"`
	ErrorMarker string `toml:"error_marker,omitempty" yaml:"error_marker,omitempty"`
	Concurrency int    `toml:"concurrency" yaml:"concurrency"`
	Timeout     string `toml:"timeout" yaml:"timeout"`
	UserAgent   string `toml:"user_agent" yaml:"user_agent"`
}

func (c *Config) file() fileConfig {
	return fileConfig{
		BaseURL:     c.BaseURL,
		Group:       c.Group,
		ErrorMarker: c.ErrorMarker,
		Concurrency: c.Concurrency,
		Timeout:     c.Timeout.String(),
		UserAgent:   c.UserAgent,
	}
}

func (f fileConfig) config() (*Config, error) {
	timeout, err := parseTimeout(f.Timeout)
	if err != nil {
		return nil, err
	}
	return &Config{
		BaseURL:     f.BaseURL,
		Group:       f.Group,
		ErrorMarker: f.ErrorMarker,
		Concurrency: f.Concurrency,
		Timeout:     timeout,
		UserAgent:   f.UserAgent,
	}, nil
}

// Load reads the file at path over the defaults. The format follows the
// extension: .yaml and .yml are YAML, anything else TOML. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	f := cfg.file()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		_, err = toml.Decode(string(data), &f)
	}
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	loaded, err := f.config()
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return loaded, nil
}

// ApplyEnv overrides settings from DOCVER_* variables. lookup is usually
// [os.LookupEnv].
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvGroup); ok {
		c.Group = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "%s", EnvTimeout)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "%s", EnvConcurrency)
		}
		c.Concurrency = n
	}
	return nil
}

// WriteTOML encodes the configuration as TOML.
func (c *Config) WriteTOML(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.file()); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Get returns a setting by its file key.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "base_url":
		return c.BaseURL, true
	case "group":
		return c.Group, true
	case "error_marker":
		return c.Marker(), true
	case "concurrency":
		return strconv.Itoa(c.Concurrency), true
	case "timeout":
		return c.Timeout.String(), true
	case "user_agent":
		return c.UserAgent, true
	default:
		return "", false
	}
}

// Keys lists the settable keys with descriptions.
func Keys() map[string]string {
	return map[string]string{
		"base_url":     "Repository root URL (search API is <base_url>/api/search/artifact)",
		"group":        "Group path component after /org/ in artifact URIs; empty accepts any",
		"error_marker": "Text substituted when a version cannot be resolved",
		"concurrency":  "Searches run at once per document",
		"timeout":      "Per-request timeout such as 30s; 0 disables",
		"user_agent":   "User-Agent header for search requests",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docver/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// parseTimeout accepts Go durations and bare integers as seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}
