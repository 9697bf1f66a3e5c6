package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".shareholders.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .shareholders.yaml configuration file.
// Every field is optional; command line flags override what is set here.
// The API token is never read from this file.
type File struct {
	Country     string             `yaml:"country,omitempty"`
	BaseURL     string             `yaml:"baseURL,omitempty"`
	Profile     string             `yaml:"profile,omitempty"`
	Input       string             `yaml:"input,omitempty"`
	Output      string             `yaml:"output,omitempty"`
	Format      string             `yaml:"format,omitempty"`
	Timeout     *Duration          `yaml:"timeout,omitempty"`
	UserAgent   string             `yaml:"userAgent,omitempty"`
	SOCKSProxy  string             `yaml:"socksProxy,omitempty"`
	MaxBodySize int64              `yaml:"maxBodySize,omitempty"`
	EnvFile     string             `yaml:"envFile,omitempty"`
	Profiles    map[string]Profile `yaml:"profiles,omitempty"`
}

// Duration is a time.Duration read from YAML. It accepts Go duration
// strings ("90s", "2m") and bare numbers, which are taken as seconds, so
// both "timeout: 0" and "timeout: 0s" disable the timeout.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid duration at line %d: expected a scalar", value.Line)
	}

	s := strings.TrimSpace(value.Value)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q at line %d: %w", value.Value, value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	// Profile names are case-insensitive.
	profiles := make(map[string]Profile, len(cf.Profiles))
	for name, p := range cf.Profiles {
		profiles[strings.ToLower(name)] = p
	}
	cf.Profiles = profiles

	return &cf, nil
}

// Apply copies every setting present in the file onto cfg.
// The profile is resolved so that its default input file applies too.
func (cf *File) Apply(cfg *Config) error {
	if cf.Country != "" {
		cfg.Country = cf.Country
	}
	if cf.BaseURL != "" {
		cfg.BaseURL = cf.BaseURL
	}
	if cf.Output != "" {
		cfg.OutputFile = cf.Output
	}
	if cf.Format != "" {
		cfg.Format = cf.Format
	}
	if cf.Timeout != nil {
		cfg.Timeout = time.Duration(*cf.Timeout)
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.SOCKSProxy != "" {
		cfg.SOCKSProxy = cf.SOCKSProxy
	}
	if cf.MaxBodySize != 0 {
		cfg.MaxBodySize = cf.MaxBodySize
	}
	if cf.EnvFile != "" {
		cfg.EnvFile = cf.EnvFile
	}

	profile, err := ResolveProfile(cf.Profile, cf)
	if err != nil {
		return err
	}
	cfg.Profile = profile
	cfg.InputFile = profile.InputFile
	if cf.Input != "" {
		cfg.InputFile = cf.Input
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .shareholders.yaml in the current directory
// 3. Look for .shareholders.yaml in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
