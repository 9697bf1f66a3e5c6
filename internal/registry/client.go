package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/shareholders/internal/model"
)

const (
	// DefaultBaseURL is the registry API host.
	DefaultBaseURL = "https://api.proff.no"

	// DefaultPathTemplate is the company owner endpoint.
	DefaultPathTemplate = "/api/companies/owner/{country}/{org_id}"

	// DefaultTimeout bounds a single request. The registry defines none, but
	// a hung connection would otherwise block the whole run.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodySize limits how much of a response body is decoded.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultUserAgent identifies the tool in registry access logs.
	DefaultUserAgent = "shareholders/1.0 (+https://github.com/nao1215/shareholders)"

	// errorBodyLimit is how much of a non-200 body is kept in StatusError.
	errorBodyLimit = 512
)

// Client fetches ownership data from the registry API.
// It is safe for sequential reuse across many identifiers; each call to
// FetchOwners performs exactly one HTTP request.
type Client struct {
	// baseURL is the scheme and host of the API, without a trailing slash.
	baseURL string

	// token is sent as "Authorization: Token <token>".
	token string

	// pathTemplate is the endpoint path with {country} and {org_id} placeholders.
	pathTemplate string

	// httpClient performs the requests.
	httpClient *http.Client

	// timeout is applied when the client builds its own http.Client.
	timeout time.Duration

	// socksProxy routes requests through a SOCKS5 proxy when set.
	socksProxy string

	userAgent   string
	maxBodySize int64
	logger      *slog.Logger

	// requests counts issued requests for diagnostic output.
	requests atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used for requests.
// WithTimeout and WithSOCKSProxy are ignored when this option is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithPathTemplate sets the endpoint path template.
func WithPathTemplate(template string) Option {
	return func(c *Client) {
		c.pathTemplate = template
	}
}

// WithSOCKSProxy routes requests through the SOCKS5 proxy at addr ("host:port").
func WithSOCKSProxy(addr string) Option {
	return func(c *Client) {
		c.socksProxy = addr
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMaxBodySize sets the maximum number of response bytes decoded.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a registry client for baseURL authenticated with token.
// No request is made until FetchOwners is called.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}

	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL:      strings.TrimRight(u.String(), "/"),
		token:        token,
		pathTemplate: DefaultPathTemplate,
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		maxBodySize:  DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if !strings.Contains(c.pathTemplate, "{org_id}") {
		return nil, ErrInvalidPathTemplate
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		c.httpClient, err = c.newHTTPClient()
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// newHTTPClient builds the default http.Client, optionally dialing through
// a SOCKS5 proxy.
func (c *Client) newHTTPClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport

	if c.socksProxy != "" {
		if _, _, err := net.SplitHostPort(c.socksProxy); err != nil {
			return nil, fmt.Errorf("invalid SOCKS proxy address %q: %w", c.socksProxy, err)
		}
		dialer, err := proxy.SOCKS5("tcp", c.socksProxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}, nil
}

// OwnersURL returns the endpoint URL for country and orgID.
func (c *Client) OwnersURL(country, orgID string) string {
	path := strings.NewReplacer(
		"{country}", url.PathEscape(country),
		"{org_id}", url.PathEscape(orgID),
	).Replace(c.pathTemplate)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// FetchOwners requests the ownership payload for orgID in country.
//
// Exactly one request is made. A non-200 status yields a *StatusError;
// a 200 body that is not a JSON object yields an error wrapping
// ErrInvalidResponse. Transport errors are returned wrapped.
func (c *Client) FetchOwners(ctx context.Context, country, orgID string) (model.OwnerResponse, error) {
	endpoint := c.OwnersURL(country, orgID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	n := c.requests.Add(1)
	c.logger.Debug("requesting owners",
		"request", n,
		"url", endpoint,
		"authorization", req.Header.Get("Authorization"),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("registry responded",
		"request", n,
		"status", resp.StatusCode,
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit)) //nolint:errcheck // Body is diagnostic only
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	owners, err := model.DecodeOwnerResponse(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return owners, nil
}

// Requests returns the number of requests issued so far.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// PathTemplate returns the endpoint path template in use.
func (c *Client) PathTemplate() string {
	return c.pathTemplate
}
