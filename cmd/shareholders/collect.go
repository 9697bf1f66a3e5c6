package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/shareholders/internal/age"
	"github.com/nao1215/shareholders/internal/config"
	"github.com/nao1215/shareholders/internal/input"
	"github.com/nao1215/shareholders/internal/pipeline"
	"github.com/nao1215/shareholders/internal/registry"
	"github.com/nao1215/shareholders/internal/report"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect shareholders for every organization number in the input",
		Long: `Collect reads organization numbers from the input file and requests the
owners of each company from the registry, one company at a time.

Lines are reduced to their digits; only lines with exactly 9 digits are used,
so plain lists and markdown tables work alike. For .xlsx input the first column
of the first sheet is read.

Companies whose request fails, or that list no shareholders, are skipped and
reported. All collected records are written to one output file whose format
follows the file extension unless --format is given.

Examples:
  # Read companies.md and write shareholder_data.xlsx
  shareholders collect

  # Use the EniroPro endpoint (reads companies.xlsx by default)
  shareholders collect --profile eniropro

  # Write CSV for Swedish companies
  shareholders collect -C SE -i swedish.txt -o owners.csv

  # Store the run in a SQLite file
  shareholders collect -o runs/owners.db`,
		Args: cobra.NoArgs,
		RunE: runCollectCmd,
	}

	addConnectionFlags(cmd)
	cmd.Flags().StringP("input", "i", config.OwnersProfile().InputFile,
		"File with one organization number per line, markdown, or .xlsx (default depends on --profile)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Output file path (creates directories if needed)")
	cmd.Flags().StringP("format", "f", "",
		"Output format: xlsx, csv, markdown, json, sqlite or text (default: from --output extension)")

	return cmd
}

// runCollectCmd executes the collect command.
// Failures are printed and the command still exits 0; only an interrupted
// run is returned to the caller.
func runCollectCmd(cmd *cobra.Command, _ []string) error {
	errOut := cmd.ErrOrStderr()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return printFailure(errOut, err)
	}

	// Configuration problems, a missing token in particular, are reported
	// before any request is made.
	if err := validateConfig(cfg); err != nil {
		return printFailure(errOut, err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runCollect(ctx, cfg, cmd.OutOrStdout(), logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("collection failed", "error", err)
	}
	return printFailure(errOut, err)
}

// printFailure writes err and its chain of causes to w and swallows it.
// Cancellation is passed through so an interrupted run exits non-zero.
func printFailure(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintln(w, "Error:", err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
	return nil
}

// runCollect reads the input, aggregates the owners of every company and
// writes the report. Progress goes to out.
func runCollect(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	format, err := outputFormat(cfg)
	if err != nil {
		return err
	}

	orgs, err := input.ReadFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Fprintf(out, "Found %d organization number(s) in %s\n", len(orgs), cfg.InputFile)

	client, err := newRegistryClient(cfg, registry.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create registry client: %w", err)
	}

	logger.Info("starting collection",
		"profile", cfg.Profile.Name,
		"country", cfg.Country,
		"endpoint", client.OwnersURL(cfg.Country, "{org_id}"),
		"timeout", durationOrNone(cfg.Timeout),
	)

	p := pipeline.DefaultPipeline(client,
		pipeline.WithCountry(cfg.Country),
		pipeline.WithCollection(cfg.Profile.CollectionField()),
		pipeline.WithCalculator(age.New()),
		pipeline.WithPipelineLogger(logger),
	)

	agg := pipeline.NewAggregator(p,
		pipeline.WithAggregatorLogger(logger),
		pipeline.WithOutcomeCallback(func(o pipeline.Outcome, index, total int) {
			printOutcome(out, o, index, total)
		}),
	)

	result, aggErr := agg.Aggregate(ctx, orgs)
	if aggErr != nil {
		fmt.Fprintln(out, "\nInterrupted; keeping the data collected so far.")
	}

	collected, skipped := result.Counts()
	fmt.Fprintf(out, "\nProcessed %d companies in %s: %d collected, %d skipped (%d request(s))\n",
		len(result.Outcomes), result.Elapsed.Round(time.Millisecond), collected, skipped, client.Requests())

	records := result.Records()
	if len(records) == 0 {
		fmt.Fprintln(out, "No shareholder data found for any company!")
		return aggErr
	}

	// The run may have been interrupted; writing what was collected must
	// still complete.
	meta := report.NewMetadata(cfg.Country, cfg.Profile.Name, collected)
	if err := report.WriteFile(context.WithoutCancel(ctx), cfg.OutputFile, format, records, meta); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.OutputFile, err)
	}

	fmt.Fprintf(out, "Data saved to %s (%d record(s) from %d company(ies))\n", cfg.OutputFile, len(records), collected)
	return aggErr
}

// outputFormat returns the explicit format or the one implied by the
// output file extension.
func outputFormat(cfg *config.Config) (report.Format, error) {
	if cfg.Format != "" {
		return report.ParseFormat(cfg.Format)
	}
	return report.FormatFromPath(cfg.OutputFile), nil
}

// printOutcome writes one progress line per company.
func printOutcome(out io.Writer, o pipeline.Outcome, index, total int) {
	prefix := fmt.Sprintf("[%d/%d] %s", index+1, total, o.OrgNumber)

	if o.Status == pipeline.StatusCollected {
		fmt.Fprintf(out, "%s: %d shareholder(s)\n", prefix, len(o.Records))
		return
	}

	var statusErr *registry.StatusError
	switch {
	case errors.As(o.Err, &statusErr):
		fmt.Fprintf(out, "%s: skipped, API request failed with status %d\n", prefix, statusErr.StatusCode)
	case o.Reason == pipeline.ReasonFetchFailed:
		fmt.Fprintf(out, "%s: skipped, %v\n", prefix, o.Err)
	default:
		fmt.Fprintf(out, "%s: skipped, %s\n", prefix, o.Reason)
	}
}
