package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/shareholders/internal/config"
	"github.com/nao1215/shareholders/internal/registry"
)

// addConnectionFlags registers the flags shared by every command that
// talks to the registry.
func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("country", "C", config.DefaultCountry,
		"ISO 3166-1 alpha-2 country code of the registry")
	cmd.Flags().StringP("profile", "p", config.DefaultProfile,
		"Endpoint profile: owners, eniropro or one defined in the config file")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Registry API base URL")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each registry request (0 disables it)")
	cmd.Flags().String("socks-proxy", "",
		"Send registry requests through a SOCKS5 proxy (host:port)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"dotenv file holding "+config.TokenEnvVar)
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the user set explicitly, in that order of precedence. The
// token is loaded last. The result is not validated.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; otherwise a missing file
	// just means defaults.
	var file *config.File
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if name, ok := changedString(cmd, "profile"); ok {
		cfg.Profile, err = config.ResolveProfile(name, file)
		if err != nil {
			return nil, err
		}
		if file == nil || file.Input == "" {
			cfg.InputFile = cfg.Profile.InputFile
		}
	}

	for name, dst := range map[string]*string{
		"country":     &cfg.Country,
		"base-url":    &cfg.BaseURL,
		"input":       &cfg.InputFile,
		"output":      &cfg.OutputFile,
		"format":      &cfg.Format,
		"socks-proxy": &cfg.SOCKSProxy,
		"env-file":    &cfg.EnvFile,
	} {
		if value, ok := changedString(cmd, name); ok {
			*dst = value
		}
	}

	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		cfg.Timeout, err = flags.GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")

	cfg.Token, err = config.LoadToken(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// changedString returns the value of a string flag the user set explicitly.
// Flags the command does not define report false.
func changedString(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

// validateConfig validates cfg and turns a missing token into the hint
// users need to fix it.
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			return fmt.Errorf("%w\nPlease set your %s in the %s file", err, config.TokenEnvVar, cfg.EnvFile)
		}
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

// newRegistryClient creates the registry client described by cfg.
func newRegistryClient(cfg *config.Config, opts ...registry.Option) (*registry.Client, error) {
	base := []registry.Option{
		registry.WithPathTemplate(cfg.Profile.Path),
		registry.WithTimeout(cfg.Timeout),
		registry.WithUserAgent(cfg.UserAgent),
		registry.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.SOCKSProxy != "" {
		base = append(base, registry.WithSOCKSProxy(cfg.SOCKSProxy))
	}
	return registry.NewClient(cfg.BaseURL, cfg.Token, append(base, opts...)...)
}

// durationOrNone renders a timeout for display.
func durationOrNone(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
