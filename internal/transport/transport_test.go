package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPFetch(t *testing.T) {
	payload := []byte("avatar model bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	var lastLoaded, lastTotal int64
	tr := NewHTTP(5 * time.Second)
	data, err := tr.Fetch(context.Background(), srv.URL, func(loaded, total int64) {
		lastLoaded, lastTotal = loaded, total
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload mismatch: got %q", data)
	}
	if lastLoaded != int64(len(payload)) {
		t.Errorf("final loaded: got %d, want %d", lastLoaded, len(payload))
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("total: got %d, want %d", lastTotal, len(payload))
	}
}

func TestHTTPFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tr := NewHTTP(5 * time.Second)
	_, err := tr.Fetch(context.Background(), srv.URL, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", statusErr.Status)
	}
}

func TestFileFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.avm")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotLoaded int64
	data, err := File{}.Fetch(context.Background(), "file://"+path, func(loaded, total int64) {
		gotLoaded = loaded
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "data" || gotLoaded != 4 {
		t.Errorf("got %q loaded=%d", data, gotLoaded)
	}
}

func TestFileFetchMissing(t *testing.T) {
	_, err := File{}.Fetch(context.Background(), "/nonexistent/model.avm", nil)
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestForURL(t *testing.T) {
	if _, ok := ForURL("https://example.com/a.avm", 0).(*HTTP); !ok {
		t.Error("https URL should pick the HTTP transport")
	}
	if _, ok := ForURL("assets/a.avm", 0).(File); !ok {
		t.Error("bare path should pick the File transport")
	}
}
