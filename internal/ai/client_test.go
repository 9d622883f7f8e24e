package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(url string, timeout time.Duration) *Client {
	return NewClient(Config{APIKey: "sk-test", BaseURL: url, Timeout: timeout},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompleteSuccess(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  all quiet\n"}}]}`))
	}))
	defer srv.Close()

	out, err := testClient(srv.URL+"/", time.Second).Complete(context.Background(), "line one\nline two")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "  all quiet\n" {
		t.Errorf("Complete() = %q, want verbatim content", out)
	}
	if got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultModel)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || !strings.HasSuffix(got.Messages[1].Content, "line one\nline two") {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestCompleteFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": [`))
			},
		},
		{
			name: "oversized body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"`))
				w.Write([]byte(strings.Repeat("a", maxResponseBody+1)))
				w.Write([]byte(`"}}]}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": []}`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := testClient(srv.URL, 100*time.Millisecond).Complete(context.Background(), "x")
			var cerr *CollaboratorError
			if !errors.As(err, &cerr) {
				t.Fatalf("error = %v, want *CollaboratorError", err)
			}
			if cerr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", cerr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)
	if c.cfg.BaseURL != DefaultBaseURL || c.cfg.Model != DefaultModel || c.cfg.Timeout != DefaultTimeout {
		t.Errorf("defaults not applied: %+v", c.cfg)
	}
	if c.hc.Timeout != DefaultTimeout {
		t.Errorf("http timeout = %v", c.hc.Timeout)
	}
}
