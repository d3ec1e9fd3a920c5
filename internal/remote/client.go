package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AlbumFetcher fetches the album collection. It is implemented by *Client
// and can be substituted in tests.
type AlbumFetcher interface {
	FetchAlbums(ctx context.Context) (Response, error)
}

// Ensure Client implements AlbumFetcher at compile time.
var _ AlbumFetcher = (*Client)(nil)

// Client talks to the album catalogue HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	DefaultBaseURL     = "https://jsonplaceholder.typicode.com/"
	defaultUserAgent   = "albumsync/0.1"
	defaultTimeout     = 10 * time.Second
	albumsPath         = "albums"
	maxResponseBytes   = 10 * 1024 * 1024
	requestIDHeaderKey = "X-Request-Id"
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchAlbums retrieves the complete album collection.
func (c *Client) FetchAlbums(ctx context.Context) (Response, error) {
	if c == nil {
		return Response{}, fmt.Errorf("client is nil")
	}
	var payload []NetworkAlbum
	status, err := c.doURL(ctx, http.MethodGet, &url.URL{Path: albumsPath}, &payload)
	if err != nil {
		return Response{}, err
	}
	if status < 200 || status >= 300 {
		return Response{Successful: false, StatusCode: status}, nil
	}
	return Response{Successful: true, StatusCode: status, Body: payload}, nil
}

// doURL performs the request and decodes a 2xx body into dest. It returns the
// status code of any response that arrived; err is set only when no usable
// response was obtained.
func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) (int, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeaderKey, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classify(ctx, reqURL.String(), fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "remote response",
		"method", method,
		"url", reqURL.String(),
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, nil
	}
	if dest == nil {
		return resp.StatusCode, nil
	}
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty body: treated as an empty collection.
			return resp.StatusCode, nil
		}
		if isTimeout(ctx, err) {
			return 0, &TimeoutError{URL: reqURL.String(), Cause: fmt.Errorf("read response: %w", err)}
		}
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// classify maps a transport failure to the timeout/connectivity taxonomy.
// Cancellation by the caller is returned unchanged.
func classify(ctx context.Context, target string, err error) error {
	if isTimeout(ctx, err) {
		return &TimeoutError{URL: target, Cause: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	return &ConnectivityError{URL: target, Cause: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
