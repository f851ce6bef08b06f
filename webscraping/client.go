// Package webscraping provides the authenticated, rate-limited client for
// the WebScraping.AI API.
//
// Every request runs inside a queue.Queue task, so no more than
// Config.Concurrency requests are in flight at once no matter how many
// callers use the client concurrently. Any failure, whether a transport
// error, a timeout or a non-2xx response, is returned as *APIError.
package webscraping

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/pkg/metricskey"
	"github.com/effective-security/webscraping-mcp/queue"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/webscraping-mcp", "webscraping")

const (
	// DefaultBaseURL is the WebScraping.AI API host.
	DefaultBaseURL = "https://api.webscraping.ai"
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 15 * time.Second
	// DefaultConcurrency is the number of requests allowed in flight.
	DefaultConcurrency = 5
	// DefaultMaxResponseSize limits the size of a response body.
	DefaultMaxResponseSize = 32 << 20
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "webscraping-mcp"
)

// Config of the client. It is copied by New and never changes afterwards.
type Config struct {
	// APIKey is sent as `api_key` with every request. Required.
	APIKey string
	// BaseURL of the API, DefaultBaseURL if empty.
	BaseURL string
	// Timeout of a single request, DefaultTimeout if not positive.
	Timeout time.Duration
	// Concurrency is the maximum number of requests in flight,
	// DefaultConcurrency if less than 1.
	Concurrency int
	// MaxResponseSize in bytes, DefaultMaxResponseSize if not positive.
	MaxResponseSize int64
	// UserAgent header, DefaultUserAgent if empty.
	UserAgent string
}

// Response is a successful upstream response.
type Response struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

// String returns the body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// IsJSON reports whether the body is a valid JSON document.
func (r *Response) IsJSON() bool {
	body := bytes.TrimSpace(r.Body)
	return len(body) > 0 && json.Valid(body)
}

// JSON returns the body when it is valid JSON,
// otherwise the body encoded as a JSON string.
func (r *Response) JSON() json.RawMessage {
	if r.IsJSON() {
		return json.RawMessage(bytes.TrimSpace(r.Body))
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(string(r.Body))
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithQueue sets the scheduler shared by the client,
// overriding Config.Concurrency.
func WithQueue(q *queue.Queue) Option {
	return func(c *Client) {
		c.queue = q
	}
}

// Client is the WebScraping.AI API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	queue      *queue.Queue
}

// New returns a client for the given configuration.
// It fails with ErrMissingAPIKey when cfg.APIKey is empty.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.WithStack(ErrMissingAPIKey)
	}

	cfg.BaseURL = strings.TrimRight(values.StringsCoalesce(cfg.BaseURL, DefaultBaseURL), "/")
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("invalid base URL: %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = DefaultMaxResponseSize
	}
	cfg.UserAgent = values.StringsCoalesce(cfg.UserAgent, DefaultUserAgent)

	c := &Client{
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.queue == nil {
		c.queue = queue.New("webscraping", cfg.Concurrency)
	}
	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Queue returns the scheduler that admits the client's requests.
func (c *Client) Queue() *queue.Queue {
	return c.queue
}

// Request issues a GET to BaseURL+endpoint with params as the query.
// The api_key and from_mcp_server parameters are always set by the client
// and cannot be overridden by params.
// On failure the returned error is *APIError.
func (c *Client) Request(ctx context.Context, endpoint string, params Params) (*Response, error) {
	resp, err := queue.Submit(ctx, c.queue, func(ctx context.Context) (*Response, error) {
		return c.get(ctx, endpoint, params)
	})
	if err != nil {
		apiErr := normalizeError(err)
		metricskey.StatsUpstreamRequestsFailed.IncrCounter(1, endpoint, apiErr.statusTag())

		kv := []any{
			"endpoint", endpoint,
			"status", apiErr.StatusCode,
		}
		if cause := apiErr.Unwrap(); cause != nil {
			kv = append(kv, "err", cause.Error())
		}
		logger.ContextKV(ctx, xlog.ERROR, kv...)
		return nil, apiErr
	}

	metricskey.StatsUpstreamRequestsSucceeded.IncrCounter(1, endpoint)
	logger.ContextKV(ctx, xlog.DEBUG,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"content_type", resp.ContentType,
		"size", len(resp.Body),
	)
	return resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params Params) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqURL := c.cfg.BaseURL + endpoint + "?" + c.query(params).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	started := time.Now()
	httpResp, err := c.httpClient.Do(req)
	metricskey.PerfUpstreamRequest.MeasureSince(started, endpoint)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	resp := &Response{
		StatusCode:  httpResp.StatusCode,
		Status:      statusText(httpResp),
		ContentType: httpResp.Header.Get("Content-Type"),
	}

	resp.Body, err = readAllWithLimit(httpResp.Body, c.cfg.MaxResponseSize)
	if err != nil {
		err = errors.WithMessage(err, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the status is kept even when the body could not be read
		apiErr := newResponseError(resp)
		apiErr.cause = err
		return nil, apiErr
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// query merges params with the client's credentials.
// The credentials are set last, so caller params never shadow them.
func (c *Client) query(params Params) url.Values {
	q := params.Values()
	q.Del(ParamAPIKey + "[]")
	q.Del(ParamFromMCPServer + "[]")
	q.Set(ParamAPIKey, c.cfg.APIKey)
	q.Set(ParamFromMCPServer, "true")
	return q
}

func statusText(r *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)))
	return values.StringsCoalesce(text, http.StatusText(r.StatusCode))
}

// readAllWithLimit reads r up to limit bytes.
func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.Newf("response body exceeded limit of %d bytes", limit)
	}
	return data, nil
}
