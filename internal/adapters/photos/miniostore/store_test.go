package miniostore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"civic-grievances/internal/ports/photos"
)

func TestStore_Upload(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := New(Config{
		Endpoint:  srv.URL,
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "grievances",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	url, err := s.Upload(context.Background(), "citizen-1", photos.File{Name: "pothole.png", ContentType: "image/png", Data: []byte("png-bytes")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, srv.URL+"/grievances/grievance-photos/citizen-1_") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	mu.Lock()
	defer mu.Unlock()
	var put bool
	for _, p := range paths {
		if strings.HasPrefix(p, "PUT /grievances/grievance-photos/citizen-1_") {
			put = true
		}
	}
	if !put {
		t.Fatalf("no PUT observed, got %v", paths)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
	if _, err := New(Config{Bucket: "b"}); err == nil {
		t.Fatalf("expected error without endpoint")
	}
}

func TestNew_PublicBaseURL(t *testing.T) {
	s, err := New(Config{Endpoint: "localhost:9000", Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.baseURL != "https://cdn.example.com" {
		t.Fatalf("baseURL = %q", s.baseURL)
	}
}
