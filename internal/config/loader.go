package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'jobad config init' to create): %w", expandedPath, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		if err := cfg.expandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}
	return cfg, err
}

// Parse decodes TOML over the defaults, then expands and validates it
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Write encodes the configuration as TOML
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ExpandPath expands ~ to the home directory
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Dictionary.Path, err = expandPath(c.Dictionary.Path)
	if err != nil {
		return err
	}

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Dictionary validation
	if p := c.Dictionary.Path; p != "" {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv", ".toml":
		default:
			errs = append(errs, fmt.Errorf("dictionary.path must be a .csv or .toml file, got '%s'", p))
		}
	}

	// Scoring validation
	if err := c.BiasConfig().Validate(); err != nil {
		errs = append(errs, err)
	}

	// Analysis validation
	validSegmenters := map[string]bool{"unicode": true, "regex": true, "window": true}
	if !validSegmenters[c.Analysis.Segmenter] {
		errs = append(errs, fmt.Errorf("analysis.segmenter must be 'unicode', 'regex' or 'window', got '%s'", c.Analysis.Segmenter))
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Fetch validation
	if c.Fetch.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("fetch.timeout_seconds must be at least 1"))
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("fetch.requests_per_second must be positive"))
	}

	// Server validation
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	// Batch validation
	if c.Batch.Workers < 1 || c.Batch.Workers > 64 {
		errs = append(errs, errors.New("batch.workers must be between 1 and 64"))
	}
	if c.Batch.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("batch.timeout_seconds must not be negative"))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
