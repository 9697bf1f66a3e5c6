package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/shareholders/internal/log"
)

// NewRootCmd creates the root command for shareholders.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shareholders",
		Short: "Collect shareholder data for a list of companies",
		Long: `shareholders collects ownership data from the Proff company registry API.

It reads 9-digit organization numbers, requests the owners of each company,
computes every owner's age from the birth year and writes all records to a
single spreadsheet.

The API token is read from PROFF_API_TOKEN, in the environment or in a .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a boolean flag from the command or its root.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// setupLogger creates the redacting logger selected by the global flags
// and installs it as the slog default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getBoolFlag(cmd, "verbose")

	var logger *slog.Logger
	if getBoolFlag(cmd, "log-json") {
		logger = log.NewSecureJSONLogger(os.Stderr, verbose)
	} else {
		logger = log.NewSecureLogger(os.Stderr, verbose)
	}
	slog.SetDefault(logger)
	return logger
}
