package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrMissingToken is returned when no API token is configured or the
	// token is still the placeholder from the example .env file.
	ErrMissingToken = errors.New("missing API token: set " + TokenEnvVar + " in the environment or in a .env file")

	// ErrInvalidCountry is returned when the country is not an ISO 3166-1 alpha-2 code.
	ErrInvalidCountry = errors.New("invalid country: must be an ISO 3166-1 alpha-2 code such as NO")

	// ErrInvalidBaseURL is returned when the API base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrNoInput is returned when no input file is configured.
	ErrNoInput = errors.New("no input file specified: use --input")

	// ErrNoOutput is returned when no output file is configured.
	ErrNoOutput = errors.New("no output file specified: use --output")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Use 0 to disable the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownProfile is returned when the selected profile is neither
	// built in nor defined in the configuration file.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidProfile is returned when a profile cannot address a company.
	ErrInvalidProfile = errors.New("invalid profile: path must contain {org_id} and at least one collection key is required")
)
