// Package fetch retrieves the original markup of the page under test.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"time"
)

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "hintprobe/0.1"

// DefaultMaxBodySize caps how much markup is read.
const DefaultMaxBodySize = 32 << 20

// TimingInfo holds the phases of the markup request.
type TimingInfo struct {
	DNSLookupTime    time.Duration
	TCPConnectTime   time.Duration
	TLSHandshakeTime time.Duration
	TimeToFirstByte  time.Duration
	TotalTime        time.Duration
}

// Document is a fetched page.
type Document struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int

	// ContentType is the response Content-Type header, charset included.
	ContentType string
	Body        string
	Timing      TimingInfo
}

// Client fetches page markup over HTTP.
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers:     make(map[string]string),
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the timeout for the client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the largest markup accepted, in bytes
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Fetch retrieves url and returns its markup. Any non-2xx status is an error.
func (c *Client) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	timing := TimingInfo{}
	start := time.Now()

	var dnsStart, connectStart, tlsStart time.Time
	lastPhaseEnd := start

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			now := time.Now()
			timing.DNSLookupTime = now.Sub(dnsStart)
			lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				now := time.Now()
				timing.TCPConnectTime = now.Sub(connectStart)
				lastPhaseEnd = now
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				now := time.Now()
				timing.TLSHandshakeTime = now.Sub(tlsStart)
				lastPhaseEnd = now
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("markup exceeds %d bytes", c.maxBodySize)
	}
	timing.TotalTime = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc := &Document{
		URL:        resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
		Timing:      timing,
	}

	c.logger.Debug("fetched markup",
		slog.String("url", doc.URL),
		slog.Int("status", doc.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("dns", timing.DNSLookupTime),
		slog.Duration("connect", timing.TCPConnectTime),
		slog.Duration("tls", timing.TLSHandshakeTime),
		slog.Duration("ttfb", timing.TimeToFirstByte),
		slog.Duration("total", timing.TotalTime),
	)

	return doc, nil
}
