package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single request when ClientConfig.Timeout is zero.
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "roster/1.0"
	requestIDHeader  = "X-Request-ID"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second; <= 0 disables limiting
	UserAgent  string
	Logger     logrus.FieldLogger
	HTTPClient *http.Client
}

// Client talks to a JSONPlaceholder-compatible REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
	log       logrus.FieldLogger
}

// NewClient validates the base URL and builds a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(math.Ceil(cfg.RateLimit))
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		timeout:   timeout,
		limiter:   limiter,
		userAgent: userAgent,
		log:       logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Do sends one request and decodes a successful response into dest. Every
// failure is returned as an *APIError. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, dest any) error {
	if c == nil {
		return requestError(errors.New("client is nil"))
	}
	reqURL, err := c.resolve(endpoint)
	if err != nil {
		return requestError(err)
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return requestError(fmt.Errorf("encode request body: %w", err))
		}
		payload = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": requestID,
	})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(log, limiterError(ctx, err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return c.fail(log, requestError(fmt.Errorf("create request: %w", err)))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(log, transportError(ctx, err))
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(log, errorFromResponse(resp))
	}

	if err := decodeBody(resp, dest); err != nil {
		return c.fail(log, transportError(ctx, err))
	}
	log.Debug("request completed")
	return nil
}

func (c *Client) fail(log logrus.FieldLogger, apiErr *APIError) error {
	entry := log.WithField("kind", apiErr.Kind)
	if apiErr.Details != "" {
		entry = entry.WithField("details", apiErr.Details)
	}
	entry.Warn(apiErr.Message)
	return apiErr
}

// limiterError maps a rate limiter wait failure. Wait refuses up front when the
// reservation would outlive the deadline, which is still a timeout.
func limiterError(ctx context.Context, err error) *APIError {
	if ctx.Err() == nil || isTimeout(ctx, err) {
		return &APIError{
			Kind:    KindTimeout,
			Status:  http.StatusRequestTimeout,
			Message: timeoutMessage,
			cause:   err,
		}
	}
	return transportError(ctx, err)
}

func (c *Client) resolve(endpoint string) (string, error) {
	rel, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if rel.IsAbs() || rel.Host != "" {
		return "", fmt.Errorf("endpoint %q must be relative to the base url", endpoint)
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

func decodeBody(resp *http.Response, dest any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	switch target := dest.(type) {
	case *string:
		*target = string(raw)
	case *[]byte:
		*target = raw
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url is required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// GetJSON fetches endpoint and decodes it into a T.
func GetJSON[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	if err := c.Do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// PostJSON sends body to endpoint and decodes the response into a T.
func PostJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return send[T](ctx, c, http.MethodPost, endpoint, body)
}

// PutJSON replaces the resource at endpoint.
func PutJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return send[T](ctx, c, http.MethodPut, endpoint, body)
}

// PatchJSON partially updates the resource at endpoint.
func PatchJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return send[T](ctx, c, http.MethodPatch, endpoint, body)
}

// DeleteResource removes the resource at endpoint, discarding any response body.
func DeleteResource(ctx context.Context, c *Client, endpoint string) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func send[T any](ctx context.Context, c *Client, method, endpoint string, body any) (T, error) {
	var out T
	if err := c.Do(ctx, method, endpoint, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
