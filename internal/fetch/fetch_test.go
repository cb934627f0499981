package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>listing</body></html>"))
	}))
	defer srv.Close()

	body, err := NewHTTPFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if body != "<html><body>listing</body></html>" {
		t.Errorf("Fetch() body = %q", body)
	}
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Fetch() error = %v; want *FetchError", err)
	}
	if fetchErr.Status != http.StatusServiceUnavailable {
		t.Errorf("FetchError.Status = %d; want 503", fetchErr.Status)
	}
}

func TestHTTPFetcherUnreachable(t *testing.T) {
	_, err := NewHTTPFetcher(time.Second).Fetch(context.Background(), "http://127.0.0.1:1/listing")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Fetch() error = %v; want *FetchError", err)
	}
}

func TestHTTPFetcherCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(5 * time.Second).Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("Fetch() with cancelled context succeeded")
	}
}
