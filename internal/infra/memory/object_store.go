package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"seenjeem-admin/internal/domain"
)

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

// ObjectStore keeps uploaded media in memory and serves them under baseURL.
type ObjectStore struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (s *ObjectStore) Put(_ context.Context, objectPath, contentType string, body io.Reader, _ int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}
	s.mu.Lock()
	s.objects[objectPath] = Object{ContentType: contentType, Data: buf.Bytes()}
	s.mu.Unlock()
	return s.baseURL + "/" + objectPath, nil
}

func (s *ObjectStore) Delete(_ context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectPath]; !ok {
		return domain.ErrNotFound
	}
	delete(s.objects, objectPath)
	return nil
}

func (s *ObjectStore) PathFromURL(rawURL string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p, p != ""
}

// Get returns a stored object.
func (s *ObjectStore) Get(objectPath string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[objectPath]
	return o, ok
}
