// Package api implements the typed client for the ShurYan backend
// REST contract. Every call returns the decoded payload plus an error;
// failures preserve the backend message so upper layers can normalize
// it for the doctor.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to the ShurYan backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
}

// Options tune a Client. Zero values fall back to sane defaults.
type Options struct {
	Timeout        time.Duration
	RequestsPerSec int
	Burst          int
	Logger         *zap.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.RequestsPerSec * 2
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		logger:  opts.Logger,
	}
}

// SetToken installs the doctor's bearer token for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the uniform success wrapper the backend puts around
// every response. Older endpoints use "success", newer ones
// "isSuccess"; both are accepted.
type envelope struct {
	IsSuccess *bool           `json:"isSuccess"`
	Success   *bool           `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func (e envelope) ok() bool {
	if e.IsSuccess != nil {
		return *e.IsSuccess
	}
	if e.Success != nil {
		return *e.Success
	}
	return true
}

// do performs one backend call and decodes the data field into out.
// A nil out discards the payload. out is left untouched when the
// backend returned a null data field.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	token := c.currentToken()
	if token != "" && TokenExpired(token, time.Now()) {
		return ErrTokenExpired
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 400 {
				return &APIError{Status: resp.StatusCode, Message: ""}
			}
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || !env.ok() {
		c.logger.Warn("backend returned failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message))
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
