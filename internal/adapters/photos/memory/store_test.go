package memory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"civic-grievances/internal/ports/photos"
)

func TestStore_UploadAndServe(t *testing.T) {
	s := New("/photos/")
	url, err := s.Upload(context.Background(), "citizen-1", photos.File{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/photos/grievance-photos/citizen-1_") {
		t.Fatalf("unexpected url %q", url)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 object")
	}

	h := http.StripPrefix("/photos", s)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "jpeg" || rr.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/photos/grievance-photos/nope.jpg", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
