package ephem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher()
	if f.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", f.BaseURL(), DefaultBaseURL)
	}
	if f.timeout != DefaultFetchTimeout {
		t.Errorf("timeout = %v, want %v", f.timeout, DefaultFetchTimeout)
	}
	if f.client == nil || f.client.Timeout != DefaultFetchTimeout {
		t.Error("default client not configured with timeout")
	}
}

func TestNewFetcher_Options(t *testing.T) {
	client := &http.Client{}
	f := NewFetcher(
		WithBaseURL("http://example.com/eph/"),
		WithTimeout(5*time.Second),
		WithHTTPClient(client),
	)
	if f.BaseURL() != "http://example.com/eph" {
		t.Errorf("BaseURL() = %q, trailing slash not trimmed", f.BaseURL())
	}
	if f.client != client {
		t.Error("WithHTTPClient not applied")
	}
}

func TestFetch_Success(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "sub", "linux_p1550p2650.440")
	f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	res, err := f.Fetch(context.Background(), "de440/linux_p1550p2650.440", dest)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Bytes != int64(len(payload)) {
		t.Errorf("Bytes = %d, want %d", res.Bytes, len(payload))
	}
	if res.URL != srv.URL+"/de440/linux_p1550p2650.440" {
		t.Errorf("URL = %q", res.URL)
	}
	if !strings.HasPrefix(userAgent, "ls-ephemeris/") {
		t.Errorf("User-Agent = %q", userAgent)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != payload {
		t.Error("persisted content differs from served content")
	}
}

func TestFetch_BadStatusLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "linux_p1550p2650.440")
	f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := f.Fetch(context.Background(), "de440/linux_p1550p2650.440", dest)
	if err == nil || !strings.Contains(err.Error(), "unexpected status code: 404") {
		t.Fatalf("Fetch() error = %v, want status 404", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory has %d entries after failed fetch, want 0", len(entries))
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := f.Fetch(ctx, "x", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("Fetch() with canceled context succeeded")
	}
}
