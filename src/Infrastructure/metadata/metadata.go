// Package metadata implements the HTTP client that downloads token metadata
// documents from token URIs.
//
// Notes:
// - URIs are absolute; ipfs:// must be rewritten to a gateway by the caller
// - Non-2xx responses are errors carrying the status and a body excerpt
// - Bodies over MaxBodyBytes are errors, never truncated
// - Requests share one token-bucket limiter so a large gallery cannot flood
//   a metadata host
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MMN3003/minter/src/gallery/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported metadata uri scheme")
	ErrUnexpectedStatus  = errors.New("unexpected metadata response status")
	ErrBodyTooLarge      = errors.New("metadata response too large")
)

// Default HTTP client; per-request deadlines come from the caller's context.
var (
	DefaultHTTPClient = &http.Client{Timeout: 30 * time.Second}
)

const defaultMaxBodyBytes = 1 << 20

var _ domain.MetadataFetcher = (*Client)(nil)

// NewClient constructs a metadata client. Without WithRateLimit requests are
// not throttled.
func NewClient(opts ...Option) *Client {
	c := &Client{
		HTTP:         DefaultHTTPClient,
		UserAgent:    "minter/1.0",
		Logger:       log.Logger,
		Limiter:      rate.NewLimiter(rate.Inf, 0),
		MaxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option functional options
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithUserAgent(ua string) Option       { return func(c *Client) { c.UserAgent = ua } }
func WithLogger(l zerolog.Logger) Option   { return func(c *Client) { c.Logger = l } }
func WithMaxBodyBytes(n int64) Option      { return func(c *Client) { c.MaxBodyBytes = n } }

// WithRateLimit allows rps requests per second with bursts of burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

type Client struct {
	HTTP         *http.Client
	UserAgent    string
	Logger       zerolog.Logger
	Limiter      *rate.Limiter
	MaxBodyBytes int64
}

// Fetch downloads the document at uri.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata uri: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > c.MaxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, c.MaxBodyBytes)
	}

	c.Logger.Debug().
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(b)).
		Str("duration", time.Since(start).String()).
		Msg("metadata response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(b, 256))
	}
	return b, nil
}

// --- Helpers ---
func truncate(b []byte, max int) []byte {
	if len(b) > max {
		return b[:max]
	}
	return b
}
