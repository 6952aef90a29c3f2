package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wikivault/internal/model"
)

// TestNewFetcherRequiresBaseURL tests that a base URL is mandatory.
func TestNewFetcherRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewFetcher(""); err != ErrNoBaseURL {
		t.Errorf("expected ErrNoBaseURL, got %v", err)
	}
}

// TestFetchAll tests downloading, deduplication, and failure counting
// against a local HTTP server.
func TestFetchAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "Missing") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	f, err := NewFetcher(srv.URL, WithConcurrency(2))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	root := t.TempDir()
	refs := []model.ImageReference{
		{Name: "Gandalf.png", Path: "images/Gandalf.png"},
		{Name: "Gandalf.png", Path: "images/Gandalf.png"}, // duplicate reference
		{Name: "Bree.png", Path: "images/Bree.png"},
		{Name: "Missing.png", Path: "images/Missing.png"},
	}

	stats := f.FetchAll(context.Background(), root, refs)
	if stats.Fetched != 2 {
		t.Errorf("Fetched = %d, expected 2", stats.Fetched)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, expected 1", stats.Failed)
	}

	data, err := os.ReadFile(filepath.Join(root, "images", "Gandalf.png"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("content = %q", string(data))
	}
	if _, err := os.Stat(filepath.Join(root, "images", "Missing.png")); !os.IsNotExist(err) {
		t.Error("failed download left a file behind")
	}
}

// TestFetchAllSkipsExisting tests that files already on disk are not
// downloaded again.
func TestFetchAllSkipsExisting(t *testing.T) {
	t.Parallel()

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	f, err := NewFetcher(srv.URL, WithConcurrency(1))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "images"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "images", "Gandalf.png"), []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	stats := f.FetchAll(context.Background(), root, []model.ImageReference{
		{Name: "Gandalf.png", Path: "images/Gandalf.png"},
	})
	if stats.Skipped != 1 || stats.Fetched != 0 {
		t.Errorf("stats = %+v, expected one skip", stats)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, expected 0", requests)
	}

	data, _ := os.ReadFile(filepath.Join(root, "images", "Gandalf.png"))
	if string(data) != "old" {
		t.Error("existing file was overwritten")
	}
}

// TestFetchAllCanceled tests that cancellation stops the run without
// panicking.
func TestFetchAllCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	f, err := NewFetcher(srv.URL)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := f.FetchAll(ctx, t.TempDir(), []model.ImageReference{
		{Name: "Gandalf.png", Path: "images/Gandalf.png"},
	})
	if stats.Fetched != 0 {
		t.Errorf("Fetched = %d after cancellation", stats.Fetched)
	}
}
