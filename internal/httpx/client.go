package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const (
	maxAttempts    = 3
	requestTimeout = 30 * time.Second
	initialBackoff = 1 * time.Second
)

// Client posts JSON requests with a fixed default header set, a synthesized
// Cookie header and a bounded retry policy. A nil document with a nil error
// means the endpoint gave no usable response: either an empty 2xx body or
// all attempts exhausted. Callers that need a body must check for nil.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	cookies    Cookies

	// sleep is swapped in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(headers map[string]string, cookies Cookies) *Client {
	h := make(map[string]string, len(headers))
	for name, value := range headers {
		h[name] = value
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		headers:    h,
		cookies:    cookies.Clone(),
		sleep:      sleepCtx,
	}
}

func (c *Client) PostJSON(ctx context.Context, url string, payload any) (json.RawMessage, error) {
	body := []byte("{}")
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request payload: %w", err)
		}
		body = data
	}
	return c.send(ctx, url, body)
}

func (c *Client) PostRaw(ctx context.Context, url, body string) (json.RawMessage, error) {
	return c.send(ctx, url, []byte(body))
}

func (c *Client) send(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	delay := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, err := c.sendOnce(ctx, url, body)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			// a cancelled in-flight request is never retried
			return nil, ctx.Err()
		}

		log.Printf("[httpx] attempt %d/%d failed: %v", attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		jitter := time.Duration(100+rand.Intn(300)) * time.Millisecond
		delay = delay*2 + jitter
	}

	// Retry exhaustion degrades to "no response" rather than an error;
	// callers that require a document treat nil as their own failure.
	return nil, nil
}

func (c *Client) sendOnce(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for name, value := range c.headers {
		req.Header.Set(name, value)
	}
	if c.cookies.Len() > 0 {
		req.Header.Set("Cookie", c.cookies.Header())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed: %d %s: %s", resp.StatusCode, resp.Status, strings.TrimSpace(string(raw)))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid json response: %s", strings.TrimSpace(string(raw)))
	}
	return json.RawMessage(raw), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
