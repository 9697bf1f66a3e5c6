package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSecureHandler_Redaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "authorization header", key: "authorization", value: "Token abc123", wantMask: true},
		{name: "capitalized header name", key: "Authorization", value: "Token abc123", wantMask: true},
		{name: "token attribute", key: "token", value: "plain-token-value", wantMask: true},
		{name: "env variable name as key", key: "PROFF_API_TOKEN", value: "plain-token-value", wantMask: true},
		{name: "keyword inside key", key: "registry_api_token", value: "plain-token-value", wantMask: true},
		{name: "Token value under neutral key", key: "header", value: "Token 0123456789abcdef", wantMask: true},
		{name: "Bearer value under neutral key", key: "header", value: "Bearer abc.def", wantMask: true},
		{name: "dotenv line", key: "line", value: "PROFF_API_TOKEN=abc123", wantMask: true},
		{name: "long opaque value", key: "value", value: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6", wantMask: true},
		{name: "owners URL", key: "url", value: "https://api.proff.no/api/companies/owner/NO/917251770", wantMask: false},
		{name: "org number", key: "org", value: "917251770", wantMask: false},
		{name: "company name", key: "company", value: "Example AS", wantMask: false},
		{name: "skip reason", key: "reason", value: "empty shareholder collection", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewSecureLogger(&buf, true).Info("test message", tt.key, tt.value)
			output := buf.String()

			masked := !strings.Contains(output, tt.value) && strings.Contains(output, MaskValue)
			if masked != tt.wantMask {
				t.Errorf("%s=%q: masked = %v, want %v; output: %s", tt.key, tt.value, masked, tt.wantMask, output)
			}
		})
	}
}

// TestSecureHandler_RegistryRequestLog logs the attributes the registry
// client writes for every request.
func TestSecureHandler_RegistryRequestLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureJSONLogger(&buf, true)

	logger.Debug("requesting owners",
		"request", 1,
		"url", "https://api.proff.no/api/companies/owner/NO/917251770",
		"authorization", "Token s3cr3t-value",
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log entry, got %q: %v", buf.String(), err)
	}
	if entry["authorization"] != MaskValue {
		t.Errorf("authorization = %v, want %q", entry["authorization"], MaskValue)
	}
	if entry["url"] != "https://api.proff.no/api/companies/owner/NO/917251770" {
		t.Errorf("url = %v, expected it unchanged", entry["url"])
	}
	if entry["request"] != float64(1) {
		t.Errorf("request = %v, want 1", entry["request"])
	}
	if strings.Contains(buf.String(), "s3cr3t-value") {
		t.Errorf("token leaked into output: %s", buf.String())
	}
}

func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		level   slog.Level
		want    bool
	}{
		{name: "debug in verbose mode", verbose: true, level: slog.LevelDebug, want: true},
		{name: "info hidden by default", verbose: false, level: slog.LevelInfo, want: false},
		{name: "warn shown by default", verbose: false, level: slog.LevelWarn, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			NewSecureLogger(&buf, tt.verbose).Log(t.Context(), tt.level, "company skipped")

			if got := strings.Contains(buf.String(), "company skipped"); got != tt.want {
				t.Errorf("message shown = %v, want %v; output: %s", got, tt.want, buf.String())
			}
		})
	}
}

func TestSecureHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).
		With("token", "from-env-file").
		WithGroup("request")

	logger.Info("registry responded", "status", 200, "authorization", "Token abc")
	output := buf.String()

	for _, leaked := range []string{"from-env-file", "Token abc"} {
		if strings.Contains(output, leaked) {
			t.Errorf("expected %q to be masked, got: %s", leaked, output)
		}
	}
	if !strings.Contains(output, "request.status=200") {
		t.Errorf("expected grouped status attribute, got: %s", output)
	}
}

func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}
	slog.New(handler).Info("test message")
}

func TestIsSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"Token abc123", true},
		{"Basic dXNlcjpwYXNz", true},
		{"PROFF_API_TOKEN = abc123", true},
		{"eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.c2ln", true},
		{"token expired", false},
		{"917251770", false},
		{"Kari Nordmann", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			if got := isSensitiveValue(tt.value); got != tt.want {
				t.Errorf("isSensitiveValue(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
