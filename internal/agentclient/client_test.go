package agentclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: DefaultBaseURL},
		{in: "http://example.test", want: "http://example.test"},
		{in: "http://example.test///", want: "http://example.test"},
		{in: "  http://example.test/api/ ", want: "http://example.test/api"},
	}
	for _, test := range tests {
		if got := New(test.in).BaseURL(); got != test.want {
			t.Fatalf("New(%q).BaseURL() = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestQuerySuccess(t *testing.T) {
	var gotPrompt, gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		gotPrompt = req.Prompt
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(QueryResponse{Reply: "hi back"})
	}))
	defer server.Close()

	reply, err := New(server.URL+"/").Query(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if reply != "hi back" {
		t.Fatalf("Query() = %q, want %q", reply, "hi back")
	}
	if gotMethod != http.MethodPost || gotPath != QueryPath || gotPrompt != "hello" {
		t.Fatalf("request = %s %s prompt %q", gotMethod, gotPath, gotPrompt)
	}
}

func TestQueryRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := New(server.URL).Query(context.Background(), "hello")
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("Query() error = %T %v, want *RemoteError", err, err)
	}
	if remoteErr.StatusCode != http.StatusInternalServerError || remoteErr.Body != "boom" {
		t.Fatalf("RemoteError = %+v", remoteErr)
	}
	if err.Error() != "API 500: boom" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "API 500: boom")
	}
}

func TestQueryMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer server.Close()

	_, err := New(server.URL).Query(context.Background(), "hello")
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) || remoteErr.StatusCode != http.StatusOK {
		t.Fatalf("Query() error = %v, want *RemoteError with status 200", err)
	}
}

func TestQueryNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url).Query(context.Background(), "hello")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Query() error = %T %v, want *NetworkError", err, err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("NetworkError does not unwrap to the transport error")
	}
}
