// Package memory guarda fotos en memoria y las sirve por HTTP (modo dev).
package memory

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"civic-grievances/internal/ports/photos"
)

type object struct {
	contentType string
	data        []byte
}

type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// New: baseURL es el prefijo público bajo el que se monta Handler, p.ej. "/photos".
func New(baseURL string) *Store {
	return &Store{objects: map[string]object{}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Store) Upload(_ context.Context, ownerHint string, f photos.File) (string, error) {
	key := photos.ObjectKey(ownerHint, f.Name)
	data := make([]byte, len(f.Data))
	copy(data, f.Data)

	s.mu.Lock()
	s.objects[key] = object{contentType: f.ContentType, data: data}
	s.mu.Unlock()
	return s.baseURL + "/" + key, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// ServeHTTP sirve GET <baseURL>/<key>. Se monta con http.StripPrefix(baseURL).
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if obj.contentType != "" {
		w.Header().Set("Content-Type", obj.contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(obj.data)
}
