// Package config loads tool-level configuration for the md2tex CLI: output
// location, template selection, preview styling, and watch-server settings.
// Manuscript metadata (authors, title, keywords) is separate and lives in the
// manuscript's own 00_CONFIG.yml; see internal/metadata.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2tex/internal/fileutil"
	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits for multi-tenant safety.
const (
	MaxPathLength         = 2048 // Filesystem paths
	MaxTemplateNameLength = 100  // Template or style name
	MaxDateLength         = 55   // "auto:" plus a 50-char format
	MaxAddrLength         = 253  // host:port, hostname bound per RFC 1035
	MaxWorkers            = 64   // Upper bound for the conversion pool
)

// Config holds all tool configuration for manuscript conversion.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Template TemplateConfig `yaml:"template"`
	Preview  PreviewConfig  `yaml:"preview"`
	Watch    WatchConfig    `yaml:"watch"`
	Date     string         `yaml:"date"`    // "auto", "auto:FORMAT", or literal
	Workers  int            `yaml:"workers"` // 0 = derive from CPU count
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default manuscript directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as manuscript)
}

// TemplateConfig defines LaTeX template selection.
type TemplateConfig struct {
	Name string `yaml:"name"` // Template name (default: "article")
	Dir  string `yaml:"dir"`  // Filesystem template directory (empty = embedded)
}

// PreviewConfig defines HTML preview styling.
type PreviewConfig struct {
	Style string `yaml:"style"` // Name of style in internal/assets/styles/ (default: "preview")
}

// WatchConfig defines the live-preview watch server.
type WatchConfig struct {
	Addr string `yaml:"addr"` // Listen address (default: "localhost:8080")
}

// Validate checks field lengths and value ranges. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.name", c.Template.Name, MaxTemplateNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.dir", c.Template.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.style", c.Preview.Style, MaxTemplateNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("watch.addr", c.Watch.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("date", c.Date, MaxDateLength); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers: must be between 0 and %d, got %d", MaxWorkers, c.Workers)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in defaults used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		Template: TemplateConfig{Name: "article"},
		Preview:  PreviewConfig{Style: "preview"},
		Watch:    WatchConfig{Addr: "localhost:8080"},
		Date:     "auto",
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2tex/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2tex", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
