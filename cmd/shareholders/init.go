package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/shareholders/internal/config"
)

//go:embed templates/shareholders.yaml
var configTemplate embed.FS

// envTemplate is written by init --env. The placeholder is rejected as a
// token until the user replaces it.
const envTemplate = config.TokenEnvVar + "=" + config.PlaceholderToken + "\n"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file and an optional .env file",
		Long: `Init creates a commented ` + config.DefaultConfigFile + ` file in the current directory.

With --env it also creates a .env file holding a placeholder ` + config.TokenEnvVar + `
that you replace with your API token. An existing .env file is never touched.

Examples:
  # Create .shareholders.yaml in current directory
  shareholders init

  # Also create .env
  shareholders init --env

  # Create config file at a specific path, overwriting it
  shareholders init -o ~/.config/shareholders/config.yaml -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().Bool("env", false,
		"Also create "+config.DefaultEnvFile+" with a token placeholder")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	withEnv, err := cmd.Flags().GetBool("env")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeConfigTemplate(out, outputPath, force); err != nil {
		return err
	}

	if withEnv {
		envPath := filepath.Join(filepath.Dir(outputPath), config.DefaultEnvFile)
		if err := writeEnvTemplate(out, envPath); err != nil {
			return err
		}
	}
	return nil
}

// writeConfigTemplate writes the embedded configuration template.
func writeConfigTemplate(out io.Writer, outputPath string, force bool) error {
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/shareholders.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	return nil
}

// writeEnvTemplate creates the .env file unless one exists.
func writeEnvTemplate(out io.Writer, envPath string) error {
	if _, err := os.Stat(envPath); err == nil {
		fmt.Fprintf(out, "Kept existing %s\n", envPath)
		return nil
	}

	if err := os.WriteFile(envPath, []byte(envTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", envPath, err)
	}

	fmt.Fprintf(out, "Created %s\n", envPath)
	fmt.Fprintf(out, "Replace %s with your API token before running collect.\n", config.PlaceholderToken)
	return nil
}
