package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://example.com/a", false},
		{"http", "http://127.0.0.1:8080/x", false},
		{"ftp scheme", "ftp://example.com", true},
		{"no host", "https://", true},
		{"relative", "/instances.json", true},
		{"malformed", "https://exa mple.com/%zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	if err := GetJSON(context.Background(), NewClient(time.Second), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.Name != "ok" {
		t.Errorf("Name = %q, want ok", out.Name)
	}
}

func TestGetJSONRejectsNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	var out map[string]any
	if err := GetJSON(context.Background(), NewClient(time.Second), srv.URL, &out); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestNewClientTimeout(t *testing.T) {
	c := NewClient(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.Timeout)
	}
}
