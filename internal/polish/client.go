package polish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/ratelimit"
)

// Client calls a polish endpoint. It never returns an error value: every
// failure is folded into a Result carrying the original text.
type Client struct {
	endpoint   string
	httpClient *http.Client
	pacer      *ratelimit.Pacer
	log        *logging.Logger
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithPacer spaces requests to the endpoint host
func WithPacer(p *ratelimit.Pacer) ClientOption {
	return func(c *Client) { c.pacer = p }
}

// WithLogger sets the logger used for failure diagnostics
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the endpoint at url
func NewClient(url string, timeout time.Duration, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		endpoint:   url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PolishText asks the endpoint to rewrite req.Text
func (c *Client) PolishText(ctx context.Context, req Request) Result {
	if strings.TrimSpace(req.Text) == "" {
		return Result{Success: true, PolishedText: req.Text}
	}
	if !req.Context.Valid() {
		return c.fail(req, "missing paper context (country, committee and topic are required)")
	}

	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, c.endpoint); err != nil {
			return c.fail(req, fmt.Sprintf("wait for rate limit: %v", err))
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return c.fail(req, fmt.Sprintf("marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fail(req, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fail(req, fmt.Sprintf("execute request: %v", err))
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return c.fail(req, fmt.Sprintf("read response: %v", err))
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return c.fail(req, fmt.Sprintf("polish endpoint error (%d)", httpResp.StatusCode))
		}
		return c.fail(req, fmt.Sprintf("decode response: %v", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = http.StatusText(httpResp.StatusCode)
		}
		return c.fail(req, fmt.Sprintf("polish endpoint error (%d): %s", httpResp.StatusCode, msg))
	}

	if strings.TrimSpace(resp.PolishedText) == "" {
		return c.fail(req, "polish endpoint returned empty text")
	}

	return Result{Success: true, PolishedText: resp.PolishedText}
}

func (c *Client) fail(req Request, msg string) Result {
	c.log.Debug("polish failed", "transform", req.TransformType, "error", msg)
	return Result{Success: false, PolishedText: req.Text, Error: msg}
}
