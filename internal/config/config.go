package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/shareholders/internal/registry"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "shareholders"

	// DefaultBaseURL is the registry API host.
	DefaultBaseURL = registry.DefaultBaseURL

	// DefaultCountry is the jurisdiction queried when none is given.
	DefaultCountry = "NO"

	// DefaultOutputFile is the spreadsheet written when --output is not given.
	DefaultOutputFile = "shareholder_data.xlsx"

	// DefaultTimeout bounds a single registry request.
	DefaultTimeout = registry.DefaultTimeout

	// DefaultUserAgent identifies the tool in registry access logs.
	DefaultUserAgent = registry.DefaultUserAgent

	// DefaultMaxBodySize limits the maximum response body size to read.
	DefaultMaxBodySize = registry.DefaultMaxBodySize
)

// Config holds all configuration options for a collection run.
// It is built once by the CLI from defaults, the configuration file and
// flags, validated, and treated as read-only afterwards.
type Config struct {
	// Token is the registry API credential, sent as "Authorization: Token <token>".
	Token string

	// Country is the ISO 3166-1 alpha-2 jurisdiction placed in every request path.
	Country string

	// BaseURL is the registry API host, without a trailing path.
	BaseURL string

	// Profile selects the endpoint path and the payload collection key.
	Profile Profile

	// InputFile lists the organization numbers, one per line or in the
	// first column of an xlsx workbook.
	InputFile string

	// OutputFile is where the aggregated records are written.
	OutputFile string

	// Format overrides the output format inferred from OutputFile.
	// Empty means infer from the extension.
	Format string

	// Timeout is the per-request timeout. Zero disables it.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// SOCKSProxy routes registry requests through a SOCKS5 proxy ("host:port").
	// Empty means connect directly.
	SOCKSProxy string

	// UserAgent is the User-Agent header sent with registry requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to decode.
	// Set to 0 to use the default.
	MaxBodySize int64

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// EnvFile is the dotenv file read for the API token.
	EnvFile string
}

// NewConfig creates a new Config with default values.
// The token is left empty; LoadToken fills it in.
func NewConfig() *Config {
	owners := OwnersProfile()
	return &Config{
		Country:     DefaultCountry,
		BaseURL:     DefaultBaseURL,
		Profile:     owners,
		InputFile:   owners.InputFile,
		OutputFile:  DefaultOutputFile,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		EnvFile:     DefaultEnvFile,
	}
}

// XDGConfigDir returns the XDG config directory for the tool.
// On Linux: ~/.config/shareholders
// On macOS: ~/Library/Application Support/shareholders
// On Windows: %APPDATA%\shareholders
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// NormalizeCountry upper-cases and validates an ISO 3166-1 alpha-2 code.
func NormalizeCountry(country string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, country)
	}

	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, country)
	}
	return region.String(), nil
}

// Validate checks if the configuration is valid and normalizes the country.
// It returns the first problem found. The token is checked first so a
// missing credential is reported before anything else.
func (c *Config) Validate() error {
	if !HasToken(c.Token) {
		return ErrMissingToken
	}

	country, err := NormalizeCountry(c.Country)
	if err != nil {
		return err
	}
	c.Country = country

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if err := c.Profile.Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(c.InputFile) == "" {
		return ErrNoInput
	}

	if strings.TrimSpace(c.OutputFile) == "" {
		return ErrNoOutput
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
