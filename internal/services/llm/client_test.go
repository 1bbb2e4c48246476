package llm

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	payload := map[string]any{
		"choices": []any{
			map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"content": content},
			},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestClientCompleteSendsPromptAndTemperature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Temperature != 0.2 {
			t.Errorf("expected temperature 0.2, got %v", req.Temperature)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "sort these" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		writeCompletion(t, w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.Complete(context.Background(), "test", Request{System: "be terse", User: "sort these", Temperature: 0.2})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestClientWithoutKeyIsNotConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("unconfigured client must not call the service")
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(t, w, "```json\n{\"ok\":true}\n```")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientRetriesGatewayTimeoutLinearly(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		writeCompletion(t, w, `{"ok":true}`)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithRetryStep(5*time.Second),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if _, err := client.Complete(context.Background(), "test", Request{User: "hi"}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
	if len(slept) != 2 || slept[0] != 5*time.Second || slept[1] != 10*time.Second {
		t.Fatalf("expected sleeps [5s 10s], got %v", slept)
	}
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusRequestTimeout)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) {}),
	)
	_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusRequestTimeout {
		t.Fatalf("expected wrapped 408 status error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryTerminalStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError} {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(status)
		}))

		client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
		_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
		server.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if errors.Is(err, ErrMaxRetries) {
			t.Fatalf("status %d: terminal errors must not be reported as retry exhaustion", status)
		}
		if calls.Load() != 1 {
			t.Fatalf("status %d: expected a single call, got %d", status, calls.Load())
		}
	}
}

func TestClientRetriesConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	var sleeps int
	client := NewClient(Config{APIKey: "test", BaseURL: addr}, WithSleeper(func(time.Duration) { sleeps++ }))
	_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries for refused connection, got %v", err)
	}
	if sleeps != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", sleeps)
	}
}

func TestClientMissingSchemeFailsWithoutRetry(t *testing.T) {
	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: "openrouter.ai/api/v1/chat/completions"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if err == nil {
		t.Fatal("expected error for scheme-less base URL")
	}
	if errors.Is(err, ErrMaxRetries) {
		t.Fatalf("malformed URL must fail terminally, got %v", err)
	}
	if len(slept) != 0 {
		t.Fatalf("expected no backoff, slept %v", slept)
	}
}

func TestIsRetriableURLErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"refused", &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}, true},
		{"dns", &url.Error{Op: "Post", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}, true},
		{"reset", &url.Error{Op: "Post", URL: "http://x", Err: syscall.ECONNRESET}, true},
		{"eof", &url.Error{Op: "Post", URL: "http://x", Err: io.EOF}, true},
		{"scheme", &url.Error{Op: "Post", URL: "x", Err: errors.New(`unsupported protocol scheme ""`)}, false},
		{"tls", &url.Error{Op: "Post", URL: "https://x", Err: x509.UnknownAuthorityError{}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetriable(context.Background(), tc.err); got != tc.want {
				t.Fatalf("IsRetriable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestClientEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(t, w, "")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	_, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if !errors.Is(err, ErrEmptyContent) || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected empty-content error with snippet, got %v", err)
	}
}

func TestClientToolCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "tool_calls",
					"message": map[string]any{
						"content": "",
						"tool_calls": []any{
							map[string]any{"function": map[string]any{"arguments": `{"ok":true}`}},
						},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	content, err := client.Complete(context.Background(), "test", Request{User: "hi"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestIsRetriableIgnoresCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if IsRetriable(ctx, &StatusError{StatusCode: http.StatusGatewayTimeout}) {
		t.Fatal("canceled context must not retry")
	}
	if IsRetriable(context.Background(), context.Canceled) {
		t.Fatal("context.Canceled must not retry")
	}
}
