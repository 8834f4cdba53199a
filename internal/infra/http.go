package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultUserAgent is sent with every upstream request. Yahoo rejects the
// Go default agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

const maxBodyBytes = 8 << 20

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// RetryConfig bounds the retry loop of a Fetcher.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetry makes two attempts half a second apart.
var DefaultRetry = RetryConfig{
	MaxAttempts: 2,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// Fetcher performs GET requests with exponential backoff on transport
// errors, 5xx and 429 responses. Other 4xx responses fail immediately.
type Fetcher struct {
	client  *http.Client
	retry   RetryConfig
	headers map[string]string
}

// NewFetcher creates a Fetcher. A nil client gets a 30 second timeout.
func NewFetcher(client *http.Client, retry RetryConfig) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultRetry.MaxAttempts
	}
	if retry.BaseDelay <= 0 {
		retry.BaseDelay = DefaultRetry.BaseDelay
	}
	if retry.MaxDelay < retry.BaseDelay {
		retry.MaxDelay = retry.BaseDelay
	}
	return &Fetcher{
		client: client,
		retry:  retry,
		headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// GetJSON fetches url and decodes the body into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, out any) error {
	data, err := f.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// Get fetches url and returns the body.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.retry.BaseDelay
	b.MaxInterval = f.retry.MaxDelay

	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		return f.get(ctx, url)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(f.retry.MaxAttempts)))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		herr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		if !herr.Retryable() {
			return nil, backoff.Permanent(herr)
		}
		return nil, herr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
