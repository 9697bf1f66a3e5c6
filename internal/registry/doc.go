// Package registry provides the HTTP client for the company-registry API.
//
// The client issues exactly one GET per call against a fixed endpoint
// templated with the country and organization number, attaches the static
// API token and decodes the JSON object returned on HTTP 200. It never
// retries: a failure is reported to the caller, which decides whether to
// skip the company or abort.
//
// The request path is a template with {country} and {org_id} placeholders,
// set per endpoint profile. The client does not know which collection the
// payload carries.
package registry
