package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/shareholders/internal/config"
	"github.com/nao1215/shareholders/internal/model"
	"github.com/nao1215/shareholders/internal/registry"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <org-number>",
		Short: "Send one registry request and print the raw response",
		Long: `Probe requests the owners of a single company and prints the response
as indented JSON, followed by the shareholder names found in it.

Use it to check the API token and to see which keys the selected profile's
endpoint returns before running collect.

Examples:
  shareholders probe 917251770
  shareholders probe --profile eniropro 917 251 770`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProbeCmd,
	}

	addConnectionFlags(cmd)

	return cmd
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, args []string) error {
	org, ok := model.ParseOrgNumber(joinArgs(args))
	if !ok {
		return fmt.Errorf("invalid organization number %q: expected %d digits", joinArgs(args), model.OrgNumberLength)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newRegistryClient(cfg, registry.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create registry client: %w", err)
	}

	return runProbe(ctx, client, cfg, org, cmd.OutOrStdout())
}

// runProbe fetches one company and prints the response.
func runProbe(ctx context.Context, client *registry.Client, cfg *config.Config, org model.OrgNumber, out io.Writer) error {
	fmt.Fprintf(out, "Testing API call for company %s...\n", org)
	fmt.Fprintf(out, "URL: %s\n\n", client.OwnersURL(cfg.Country, org.String()))

	response, err := client.FetchOwners(ctx, cfg.Country, org.String())
	if err != nil {
		var statusErr *registry.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintf(out, "API request failed with status code: %d\n", statusErr.StatusCode)
			if statusErr.Body != "" {
				fmt.Fprintf(out, "Response: %s\n", statusErr.Body)
			}
		}
		return err
	}

	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Fprintln(out, "API call successful!")
	fmt.Fprintln(out, string(pretty))
	fmt.Fprintln(out)

	collection := cfg.Profile.CollectionField()
	entries, ok := response.Entries(collection)
	if !ok {
		fmt.Fprintf(out, "No %v key in response. Top-level keys: %v\n", collection.Aliases, response.Keys())
		return nil
	}

	fmt.Fprintf(out, "Found %d shareholder(s) for %s:\n", len(entries), companyLabel(response, org))
	for i, entry := range entries {
		name := model.LookupString(entry, model.FieldName)
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(out, "  %d. %s\n", i+1, name)
	}
	return nil
}

// companyLabel returns the company name from the response, or a
// placeholder based on the organization number.
func companyLabel(response model.OwnerResponse, org model.OrgNumber) string {
	c := model.NewCompany(org)
	c.Response = response
	return c.DisplayName()
}

// joinArgs concatenates the arguments so "917 251 770" works unquoted.
func joinArgs(args []string) string {
	return strings.Join(args, "")
}
