package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	provider "github.com/codr1/agentos-lite/internal/agent"
	"github.com/codr1/agentos-lite/internal/agentclient"
	"github.com/codr1/agentos-lite/internal/config"
	"github.com/codr1/agentos-lite/internal/ratelimit"
)

func newTestServer(t *testing.T, queriesPerMinute int) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.QueriesPerMinute = queriesPerMinute
	limiter := ratelimit.New(&ratelimit.Config{MaxPerWindow: queriesPerMinute})

	server := httptest.NewServer(newServer(cfg, limiter).Handler)
	t.Cleanup(server.Close)
	return server
}

func TestQueryRoundTrip(t *testing.T) {
	server := newTestServer(t, 60)

	reply, err := agentclient.New(server.URL).Query(context.Background(), "hi there")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := provider.MockReplyPrefix + "hi there"; reply != want {
		t.Fatalf("Query() = %q, want %q", reply, want)
	}
}

func TestQueryRateLimited(t *testing.T) {
	server := newTestServer(t, 1)
	client := agentclient.New(server.URL)

	if _, err := client.Query(context.Background(), "one"); err != nil {
		t.Fatalf("first Query() error = %v", err)
	}
	_, err := client.Query(context.Background(), "two")
	var remoteErr *agentclient.RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second Query() error = %v, want 429", err)
	}
}

func TestRoutes(t *testing.T) {
	server := newTestServer(t, 60)

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantBody: "OK"},
		{method: http.MethodGet, path: "/api/themes", wantStatus: http.StatusOK, wantBody: `"high-contrast"`},
		{method: http.MethodGet, path: "/api/themes/dark/vars.css", wantStatus: http.StatusOK, wantBody: "--color-primary"},
		{method: http.MethodGet, path: "/api/themes/nope/vars.css", wantStatus: http.StatusNotFound},
		{method: http.MethodPost, path: "/api/themes/compile", body: `{"name":"ocean"}`, wantStatus: http.StatusOK, wantBody: `"ocean"`},
		{method: http.MethodGet, path: "/api/agent/query", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, test := range tests {
		t.Run(test.method+" "+test.path, func(t *testing.T) {
			req, err := http.NewRequest(test.method, server.URL+test.path, strings.NewReader(test.body))
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != test.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", resp.StatusCode, test.wantStatus, body)
			}
			if !strings.Contains(string(body), test.wantBody) {
				t.Fatalf("body = %q, want it to contain %q", body, test.wantBody)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Fatalf("missing X-Request-ID header")
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t, 60)

	tests := []struct {
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{origin: "http://localhost:5173", wantStatus: http.StatusNoContent, wantAllow: "http://localhost:5173"},
		{origin: "http://evil.test", wantStatus: http.StatusForbidden},
	}
	for _, test := range tests {
		req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/agent/query", nil)
		req.Header.Set("Origin", test.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != test.wantStatus {
			t.Fatalf("preflight from %s status = %d, want %d", test.origin, resp.StatusCode, test.wantStatus)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != test.wantAllow {
			t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, test.wantAllow)
		}
	}
}
