package api

import (
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/models"
)

const (
	// DefaultTimeout is the transport timeout for a single completion call
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize caps how much of a response body is read
	MaxResponseSize = 10 * 1024 * 1024
)

// HTTPDoer is the subset of tls_client.HttpClient used by the client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues chat completion requests. It holds no conversation state;
// every call carries its own messages and parameters.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (for proxies or compatible gateways)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient injects the transport, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the transport timeout. Zero keeps the default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRequestsPerMinute paces outgoing calls. Zero or less disables pacing.
func WithRequestsPerMinute(n int) ClientOption {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *log.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new completion client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  logging.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full chat completions URL
func (c *Client) Endpoint() string {
	return c.baseURL + models.PathChatCompletions
}

// Timeout returns the transport timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}
