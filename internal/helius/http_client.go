package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.helius.xyz/v0"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

const opGetTransactions = "get transactions"

// HTTPClient implements TransactionSource over the Helius REST API.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	logger      *zap.Logger
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// Compile-time interface check.
var _ TransactionSource = (*HTTPClient)(nil)

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a new Helius API client.
func NewHTTPClient(baseURL, apiKey string, opts ...ClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		logger:      zap.NewNop(),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRawTransactions retrieves parsed transactions for address.
// Records are returned undecoded so callers can pass them through verbatim.
func (c *HTTPClient) GetRawTransactions(ctx context.Context, address string, opts *FetchOptions) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/addresses/%s/transactions", c.baseURL, url.PathEscape(address))

	query := url.Values{}
	if c.apiKey != "" {
		query.Set("api-key", c.apiKey)
	}
	if opts != nil {
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(min(opts.Limit, MaxLimit)))
		}
		if opts.Before != "" {
			query.Set("before", opts.Before)
		}
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.get(ctx, address, endpoint)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, &FetchError{Op: opGetTransactions, Address: address, Err: err}
	}
	return records, nil
}

// get performs a GET with retries and exponential backoff.
// Transport errors, 429 and 5xx are retried; other statuses fail immediately.
func (c *HTTPClient) get(ctx context.Context, address, endpoint string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr *FetchError

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying helius request",
				zap.String("address", address),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return nil, &FetchError{Op: opGetTransactions, Address: address, Err: ctx.Err()}
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, &FetchError{Op: opGetTransactions, Address: address, Err: fmt.Errorf("create request: %w", err)}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &FetchError{Op: opGetTransactions, Address: address, Err: ctx.Err()}
			}
			lastErr = &FetchError{Op: opGetTransactions, Address: address, Err: fmt.Errorf("http request: %w", err)}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &FetchError{Op: opGetTransactions, Address: address, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = &FetchError{Op: opGetTransactions, Address: address, StatusCode: resp.StatusCode, Err: errors.New(truncate(respBody))}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &FetchError{Op: opGetTransactions, Address: address, StatusCode: resp.StatusCode, Err: errors.New(truncate(respBody))}
		}

		return respBody, nil
	}

	if lastErr == nil {
		return nil, &FetchError{Op: opGetTransactions, Address: address, Err: errors.New("no attempts made")}
	}
	return nil, &FetchError{
		Op:         opGetTransactions,
		Address:    address,
		StatusCode: lastErr.StatusCode,
		Err:        fmt.Errorf("max retries exceeded: %w", lastErr.Err),
	}
}

// decodeRecords accepts either a bare array or an object wrapping it in "result".
func decodeRecords(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}

	var records []json.RawMessage
	if trimmed[0] == '{' {
		var wrapped struct {
			Result []json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		if wrapped.Result == nil {
			return nil, errors.New("unexpected response object without result")
		}
		return wrapped.Result, nil
	}

	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return records, nil
}

func truncate(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
