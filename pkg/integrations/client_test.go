package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/docver/pkg/observability"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "docver/test"}
	client := NewClient(nil, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != 0 {
		t.Errorf("default client timeout = %v, want none", client.http.Timeout)
	}
	if client.headers["User-Agent"] != "docver/test" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilHeaders(t *testing.T) {
	client := NewClient(NewHTTPClient(time.Second), nil)
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
	if client.http.Timeout != time.Second {
		t.Errorf("timeout = %v, want 1s", client.http.Timeout)
	}
}

func TestClientSetHeader(t *testing.T) {
	client := NewClient(nil, nil)
	client.SetHeader("User-Agent", "custom/1.0")
	if client.headers["User-Agent"] != "custom/1.0" {
		t.Errorf("headers = %v", client.headers)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var gotDefault, gotOverride string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("X-Default")
		gotOverride = r.Header.Get("X-Override")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), map[string]string{"X-Default": "default", "X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if gotDefault != "default" {
		t.Errorf("default header = %q, want %q", gotDefault, "default")
	}
	if gotOverride != "overridden" {
		t.Errorf("override header = %q, want %q", gotOverride, "overridden")
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"404", http.StatusNotFound, ErrNotFound},
		{"500", http.StatusInternalServerError, ErrNetwork},
		{"403", http.StatusForbidden, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var resp map[string]string
			err := NewClient(server.Client(), nil).Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClientGetDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var resp map[string]string
	_ = NewClient(server.Client(), nil).Get(context.Background(), server.URL, &resp)
	if n := calls.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestClientGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	var resp map[string]string
	err := NewClient(server.Client(), nil).Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Get() error = %v, want ErrInvalidResponse", err)
	}
}

func TestClientGetConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var resp map[string]string
	err := NewClient(nil, nil).Get(context.Background(), url, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
}

func TestClientGetCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var resp map[string]string
	err := NewClient(server.Client(), nil).Get(ctx, server.URL, &resp)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}

func TestClientReportsHTTPHooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	var resp map[string]string
	if err := NewClient(server.Client(), nil).Get(context.Background(), server.URL+"/api/search/artifact", &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("hooks saw %d requests / %d responses, want 1/1", hooks.requests, hooks.responses)
	}
	if hooks.lastPath != "/api/search/artifact" {
		t.Errorf("hook path = %q", hooks.lastPath)
	}
	if hooks.lastStatus != http.StatusOK {
		t.Errorf("hook status = %d", hooks.lastStatus)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantErr  bool
		wantType error
	}{
		{"200 OK", 200, false, nil},
		{"204 No Content", 204, false, nil},
		{"301 Moved", 301, true, ErrNetwork},
		{"400 Bad Request", 400, true, ErrNetwork},
		{"404 Not Found", 404, true, ErrNotFound},
		{"500 Internal Server Error", 500, true, ErrNetwork},
		{"503 Service Unavailable", 503, true, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkStatus(%d) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus(%d) error = %v, want %v", tt.code, err, tt.wantType)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://repo.example.org/artifactory", "https://repo.example.org/artifactory"},
		{"https://repo.example.org/artifactory/", "https://repo.example.org/artifactory"},
		{"  https://repo.example.org//  ", "https://repo.example.org"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeBaseURL(tt.input); got != tt.want {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://maven.arachne-framework.org/artifactory", "maven.arachne-framework.org"},
		{"https://repo.example.org:8443/", "repo.example.org"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Host(tt.input); got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu         sync.Mutex
	requests   int
	responses  int
	lastPath   string
	lastStatus int
}

func (h *recordingHooks) OnRequest(_ context.Context, _, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
	h.lastPath = path
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses++
	h.lastStatus = status
}
