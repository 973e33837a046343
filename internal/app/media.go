package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/domain"
)

// ObjectStore is a write-once blob store addressed by path.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	PathFromURL(rawURL string) (string, bool)
}

// UploadResult is returned for a stored media file.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

var mediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"video/mp4":  {},
	"video/webm": {},
	"video/ogg":  {},
}

// IsValidMediaType reports whether a content type may be uploaded.
func IsValidMediaType(contentType string) bool {
	_, ok := mediaTypes[strings.ToLower(contentType)]
	return ok
}

// MediaKind classifies a content type as image, video or unknown.
func MediaKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	}
	return "unknown"
}

// ObjectPath builds "{folder}/{unix-millis}-{token}.{ext}".
func ObjectPath(folder, filename string, at time.Time, token string) string {
	if folder == "" {
		folder = "general"
	}
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = filename
	}
	return fmt.Sprintf("%s/%d-%s.%s", strings.Trim(folder, "/"), at.UnixMilli(), token, ext)
}

// MediaService uploads and removes media referenced by catalog entries.
type MediaService struct {
	store ObjectStore
	now   func() time.Time
	log   logrus.FieldLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMediaService(store ObjectStore, log logrus.FieldLogger) *MediaService {
	return &MediaService{
		store: store,
		now:   time.Now,
		log:   log,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Upload validates the content type and stores the file under folder.
func (m *MediaService) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (UploadResult, error) {
	if !IsValidMediaType(contentType) {
		return UploadResult{}, domain.NewValidationError("file", "unsupported media type %q", contentType)
	}
	objectPath := ObjectPath(folder, filename, m.now(), m.token())
	url, err := m.store.Put(ctx, objectPath, contentType, body, size)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload media: %w", err)
	}
	return UploadResult{URL: url, Path: objectPath}, nil
}

// Remove deletes the object behind url. Failures are logged and swallowed since the
// object may already be gone.
func (m *MediaService) Remove(ctx context.Context, url string) {
	objectPath, ok := m.store.PathFromURL(url)
	if !ok {
		m.log.WithField("url", url).Warn("media url does not map to a storage path")
		return
	}
	if err := m.store.Delete(ctx, objectPath); err != nil {
		m.log.WithError(err).WithField("path", objectPath).Warn("media delete failed")
	}
}

func (m *MediaService) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strconv.FormatInt(m.rnd.Int63n(36*36*36*36*36*36), 36)
}
