package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/shareholders/internal/config"
	"github.com/nao1215/shareholders/internal/model"
	"github.com/nao1215/shareholders/internal/pipeline"
	"github.com/nao1215/shareholders/internal/report"
)

// newRegistryServer serves canned owner responses keyed by request path.
// Unknown paths answer 404.
func newRegistryServer(t *testing.T, responses map[string]string, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.Header.Get("Authorization") != "Token test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := responses[r.URL.Path]
		if !ok {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body) //nolint:errcheck // test server
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeInput(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "companies.md")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func testConfig(baseURL, input, output string) *config.Config {
	cfg := config.NewConfig()
	cfg.Token = "test-token"
	cfg.BaseURL = baseURL
	cfg.InputFile = input
	cfg.OutputFile = output
	cfg.Timeout = 5 * time.Second
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCollect(t *testing.T) {
	t.Parallel()

	t.Run("one shareholder for the first of two companies", func(t *testing.T) {
		t.Parallel()

		srv := newRegistryServer(t, map[string]string{
			"/api/companies/owner/NO/917251770": `{
				"companyName": "Example AS",
				"Shareholders": [{"Name": "Kari Nordmann", "BirthYear": 1980, "OwnershipPercentage": "60,5"}]
			}`,
		}, nil)

		input := writeInput(t, "| Org | Name |\n|---|---|\n| 917 251 770 | Example |\n| 923609016 | Other |\n| 12345678 | too short |\n")
		output := filepath.Join(t.TempDir(), "out", "shareholder_data.csv")

		var out bytes.Buffer
		if err := runCollect(context.Background(), testConfig(srv.URL, input, output), &out, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := os.Open(output)
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			t.Fatalf("invalid csv: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header and one record, got %d rows", len(rows))
		}

		record := rows[1]
		wantAge := strconv.Itoa(time.Now().Year() - 1980)
		if record[0] != "917251770" || record[1] != "Example AS" || record[2] != "Kari Nordmann" {
			t.Errorf("unexpected record %v", record)
		}
		if record[3] != "1980" || record[4] != wantAge {
			t.Errorf("expected birth year 1980 and age %s, got %q and %q", wantAge, record[3], record[4])
		}
		if record[7] != "60.5" {
			t.Errorf("expected ownership 60.5, got %q", record[7])
		}

		progress := out.String()
		for _, want := range []string{
			"Found 2 organization number(s)",
			"[1/2] 917251770: 1 shareholder(s)",
			"[2/2] 923609016: skipped, API request failed with status 404",
			"1 collected, 1 skipped",
			"Data saved to",
		} {
			if !strings.Contains(progress, want) {
				t.Errorf("expected progress to contain %q, got:\n%s", want, progress)
			}
		}
	})

	t.Run("no data writes no file", func(t *testing.T) {
		t.Parallel()

		srv := newRegistryServer(t, map[string]string{
			"/api/companies/owner/NO/917251770": `{"Shareholders": []}`,
			"/api/companies/owner/NO/923609016": `{"companyName": "Other AS"}`,
		}, nil)

		input := writeInput(t, "917251770\n923609016\n")
		output := filepath.Join(t.TempDir(), "shareholder_data.xlsx")

		var out bytes.Buffer
		if err := runCollect(context.Background(), testConfig(srv.URL, input, output), &out, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("expected no output file")
		}
		progress := out.String()
		if !strings.Contains(progress, "No shareholder data found for any company!") {
			t.Errorf("expected no-data message, got:\n%s", progress)
		}
		if !strings.Contains(progress, "empty shareholder collection") {
			t.Errorf("expected empty collection reason, got:\n%s", progress)
		}
		if !strings.Contains(progress, "no shareholder collection in response") {
			t.Errorf("expected missing collection reason, got:\n%s", progress)
		}
	})

	t.Run("eniropro profile uses its path and collection", func(t *testing.T) {
		t.Parallel()

		srv := newRegistryServer(t, map[string]string{
			"/api/shareholders/eniropro/NO/owners/917251770": `{
				"name": "Example AS",
				"relations": [
					{"nameFromRole": "Holding AS", "entityType": "COMPANY", "sharePercentage": 100}
				]
			}`,
		}, nil)

		input := writeInput(t, "917251770\n")
		output := filepath.Join(t.TempDir(), "owners.json")

		cfg := testConfig(srv.URL, input, output)
		cfg.Profile = config.EniroProProfile()

		var out bytes.Buffer
		if err := runCollect(context.Background(), cfg, &out, discardLogger()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		for _, want := range []string{`"shareholder_name": "Holding AS"`, `"entity_type": "COMPANY"`, `"profile": "eniropro"`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected json to contain %s", want)
			}
		}
	})

	t.Run("unknown format fails before any request", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := newRegistryServer(t, nil, &hits)

		cfg := testConfig(srv.URL, writeInput(t, "917251770\n"), filepath.Join(t.TempDir(), "out.xlsx"))
		cfg.Format = "pdf"

		if err := runCollect(context.Background(), cfg, io.Discard, discardLogger()); err == nil {
			t.Fatal("expected error for unknown format")
		}
		if hits.Load() != 0 {
			t.Errorf("expected no requests, got %d", hits.Load())
		}
	})

	t.Run("cancelled run makes no requests", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := newRegistryServer(t, nil, &hits)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		output := filepath.Join(t.TempDir(), "out.xlsx")
		err := runCollect(ctx, testConfig(srv.URL, writeInput(t, "917251770\n923609016\n"), output), io.Discard, discardLogger())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if hits.Load() != 0 {
			t.Errorf("expected no requests, got %d", hits.Load())
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("expected no output file")
		}
	})
}

// These tests use t.Setenv and therefore cannot run in parallel.

func TestCollectCmdMissingToken(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	var hits atomic.Int32
	srv := newRegistryServer(t, nil, &hits)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(config.TokenEnvVar+"="+config.PlaceholderToken+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"collect",
		"--env-file", envFile,
		"--base-url", srv.URL,
		"--input", writeInput(t, "917251770\n"),
		"--output", filepath.Join(dir, "out.xlsx"),
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("expected the run to end normally, got %v", err)
	}
	for _, want := range []string{config.ErrMissingToken.Error(), "Please set your " + config.TokenEnvVar} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("expected stderr to contain %q, got %q", want, stderr.String())
		}
	}
	if hits.Load() != 0 {
		t.Errorf("expected no requests, got %d", hits.Load())
	}
}

func TestCollectCmdMissingInput(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "test-token")

	var hits atomic.Int32
	srv := newRegistryServer(t, nil, &hits)

	dir := t.TempDir()
	output := filepath.Join(dir, "out.xlsx")

	var stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"collect",
		"--env-file", filepath.Join(dir, ".env"),
		"--base-url", srv.URL,
		"--input", filepath.Join(dir, "nonexist.md"),
		"--output", output,
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("expected the run to end normally, got %v", err)
	}
	if !strings.Contains(stderr.String(), "failed to read input") {
		t.Errorf("expected input error on stderr, got %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "caused by:") {
		t.Errorf("expected cause chain on stderr, got %q", stderr.String())
	}
	if hits.Load() != 0 {
		t.Errorf("expected no requests, got %d", hits.Load())
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("expected no output file")
	}
}

func TestPrintFailure(t *testing.T) {
	t.Parallel()

	t.Run("nil error prints nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := printFailure(&buf, nil); err != nil || buf.Len() != 0 {
			t.Errorf("expected no output and nil, got %q and %v", buf.String(), err)
		}
	})

	t.Run("cancellation is returned", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := printFailure(&buf, fmt.Errorf("aggregate: %w", context.Canceled))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("other errors are printed and swallowed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := printFailure(&buf, fmt.Errorf("write report: %w", report.ErrNoRecords))
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
		want := "Error: write report: " + report.ErrNoRecords.Error() + "\n  caused by: " + report.ErrNoRecords.Error() + "\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(config.TokenEnvVar+"=file-token\n"), 0600); err != nil {
		t.Fatal(err)
	}
	configFile := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("country: SE\noutput: from-file.csv\ntimeout: 10s\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Run("flags override the config file", func(t *testing.T) {
		cmd := NewCollectCmd()
		if err := cmd.ParseFlags([]string{"-c", configFile, "--env-file", envFile, "-C", "dk", "-p", "eniropro"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Country != "dk" {
			t.Errorf("expected flag country, got %q", cfg.Country)
		}
		if cfg.OutputFile != "from-file.csv" {
			t.Errorf("expected output from file, got %q", cfg.OutputFile)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected timeout from file, got %v", cfg.Timeout)
		}
		if cfg.Profile.Name != config.ProfileEniroPro || cfg.InputFile != "companies.xlsx" {
			t.Errorf("expected eniropro profile input, got %q/%q", cfg.Profile.Name, cfg.InputFile)
		}
		if cfg.Token != "file-token" {
			t.Errorf("expected token from env file, got %q", cfg.Token)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
		if cfg.Country != "DK" {
			t.Errorf("expected normalized country, got %q", cfg.Country)
		}
	})

	t.Run("explicit input wins over profile input", func(t *testing.T) {
		cmd := NewCollectCmd()
		if err := cmd.ParseFlags([]string{"-c", configFile, "-p", "eniropro", "-i", "mine.txt"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.InputFile != "mine.txt" {
			t.Errorf("expected mine.txt, got %q", cfg.InputFile)
		}
	})

	t.Run("config file input survives a profile flag", func(t *testing.T) {
		withInput := filepath.Join(dir, "with-input.yaml")
		if err := os.WriteFile(withInput, []byte("input: from-file.md\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCollectCmd()
		if err := cmd.ParseFlags([]string{"-c", withInput, "-p", "eniropro"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.InputFile != "from-file.md" {
			t.Errorf("expected input from config file, got %q", cfg.InputFile)
		}
		if cfg.Profile.Name != config.ProfileEniroPro {
			t.Errorf("expected eniropro profile, got %q", cfg.Profile.Name)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		cmd := NewCollectCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(dir, "missing.yaml")}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown profile is an error", func(t *testing.T) {
		cmd := NewCollectCmd()
		if err := cmd.ParseFlags([]string{"-c", configFile, "-p", "nope"}); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd); !errors.Is(err, config.ErrUnknownProfile) {
			t.Errorf("expected ErrUnknownProfile, got %v", err)
		}
	})
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.OutputFile = "owners.md"
	if f, err := outputFormat(cfg); err != nil || f != "markdown" {
		t.Errorf("expected markdown from extension, got %q (%v)", f, err)
	}

	cfg.Format = "csv"
	if f, err := outputFormat(cfg); err != nil || f != "csv" {
		t.Errorf("expected explicit csv, got %q (%v)", f, err)
	}
}

func TestPrintOutcomeUsesOrgNumber(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printOutcome(&buf, outcomeFor("917251770"), 0, 3)
	if !strings.HasPrefix(buf.String(), "[1/3] 917251770: 0 shareholder(s)") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func outcomeFor(org string) pipeline.Outcome {
	return pipeline.Outcome{OrgNumber: model.OrgNumber(org), Status: pipeline.StatusCollected}
}
