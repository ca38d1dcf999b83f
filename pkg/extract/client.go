package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lineascope/lineascope/pkg/cache"
	apperrors "github.com/lineascope/lineascope/pkg/errors"
	"github.com/lineascope/lineascope/pkg/httputil"
	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/observability"
)

const httpTimeout = 60 * time.Second

// Client calls the extraction service over HTTP. It handles caching, retry
// logic, and common request headers.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	cache   *httputil.Cache
	keyer   cache.Keyer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithCache attaches a response cache. Without one, every Extract call
// hits the service.
func WithCache(c *httputil.Cache) ClientOption {
	return func(cl *Client) { cl.cache = c }
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) ClientOption {
	return func(cl *Client) { cl.apiKey = key }
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(cl *Client) { cl.http = h }
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if err := apperrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	cl := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: baseURL,
		keyer:   cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl, nil
}

// Extract sends the SQL to the service and ingests the returned graph.
// Responses are cached by the content hash of the SQL and the request
// options, so re-extracting unchanged SQL is free. Transient failures
// (network errors, 5xx, 429) are retried with backoff.
func (c *Client) Extract(ctx context.Context, req Request) (*lineage.Graph, error) {
	key := c.keyer.GraphKey(cache.Hash([]byte(req.SQL)), cache.GraphKeyOpts{
		Dialect: req.Dialect,
		Model:   req.Model,
	})

	if c.cache != nil {
		var raw json.RawMessage
		if ok, _ := c.cache.Get(key, &raw); ok {
			return lineage.IngestBytes(raw)
		}
	}

	var raw json.RawMessage
	err := httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.post(ctx, req)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
		}
		raw = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	g, err := lineage.IngestBytes(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeExtraction, err, "service returned malformed graph")
	}
	if c.cache != nil {
		_ = c.cache.Set(key, raw)
	}
	return g, nil
}

func (c *Client) post(ctx context.Context, req Request) (io.ReadCloser, error) {
	endpoint, err := url.JoinPath(c.baseURL, "v1", "extract")
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	u := httpReq.URL
	observability.HTTP().OnRequest(ctx, http.MethodPost, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodPost, u.Host, u.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	observability.HTTP().OnResponse(ctx, http.MethodPost, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{Err: &apperrors.RateLimitedError{RetryAfter: retryAfter}}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
}

// Ensure Client implements Extractor.
var _ Extractor = (*Client)(nil)
