package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(headers map[string]string, cookies Cookies) (*Client, *[]time.Duration) {
	c := NewClient(headers, cookies)
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return c, &delays
}

func TestClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(nil, NewCookies())
	doc, err := c.PostJSON(context.Background(), srv.URL, map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(doc, &body); err != nil || !body.Success {
		t.Errorf("unexpected document %s (err %v)", doc, err)
	}
}

func TestClient_EmptyBodyYieldsNoDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(nil, NewCookies())
	doc, err := c.PostRaw(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != nil {
		t.Errorf("doc = %s, want nil for empty body", doc)
	}
}

func TestClient_RetryExhaustionYieldsNoResponse(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, delays := newTestClient(nil, NewCookies())
	doc, err := c.PostJSON(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("exhaustion must not surface an error, got %v", err)
	}
	if doc != nil {
		t.Errorf("doc = %s, want nil after exhaustion", doc)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want exactly 3", got)
	}

	if len(*delays) != 2 {
		t.Fatalf("backoff sleeps = %d, want 2", len(*delays))
	}
	if (*delays)[0] != time.Second {
		t.Errorf("first delay = %v, want 1s", (*delays)[0])
	}
	if (*delays)[1] <= (*delays)[0] {
		t.Errorf("delays must strictly increase: %v then %v", (*delays)[0], (*delays)[1])
	}
	// doubled base plus jitter in [100ms, 400ms)
	if (*delays)[1] < 2*time.Second+100*time.Millisecond || (*delays)[1] >= 2*time.Second+400*time.Millisecond {
		t.Errorf("second delay = %v, want within [2.1s, 2.4s)", (*delays)[1])
	}
}

func TestClient_RecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(nil, NewCookies())
	doc, err := c.PostJSON(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected document from the third attempt")
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}

func TestClient_SendsHeadersAndCookieHeader(t *testing.T) {
	var gotCookie, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cookies := ParseCookies("b=2; a=1")
	c, _ := newTestClient(map[string]string{"User-Agent": "pddcs-test"}, cookies)
	if _, err := c.PostJSON(context.Background(), srv.URL, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotCookie != "a=1; b=2" {
		t.Errorf("Cookie header = %q, want %q", gotCookie, "a=1; b=2")
	}
	if gotAgent != "pddcs-test" {
		t.Errorf("User-Agent = %q, want pddcs-test", gotAgent)
	}
}

func TestClient_CancellationNotRetried(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(nil, NewCookies())
	c.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	doc, err := c.PostJSON(ctx, srv.URL, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if doc != nil {
		t.Errorf("doc = %s, want nil", doc)
	}
	if attempts.Load() != 1 {
		t.Errorf("attempts = %d, want 1 (no retry after cancellation)", attempts.Load())
	}
}

func TestClient_InvalidJSONRetried(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c, _ := newTestClient(nil, NewCookies())
	doc, err := c.PostJSON(context.Background(), srv.URL, nil)
	if err != nil || doc != nil {
		t.Fatalf("got doc=%s err=%v, want nil/nil", doc, err)
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3", attempts.Load())
	}
}
