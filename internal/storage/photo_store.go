package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PhotoStore persists team member photos under a deterministic key derived
// from the member slug and returns a publicly servable URL.
type PhotoStore interface {
	Save(ctx context.Context, slug, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, slug string) error
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// DiskStore keeps photos on the local filesystem, served from baseURL.
type DiskStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewDiskStore creates the media directory if needed.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Save writes the photo as <slug>.<ext>, replacing any previous photo for the
// slug regardless of extension. The returned URL carries an upload-time
// version parameter so stale browser caches miss after an update.
func (s *DiskStore) Save(_ context.Context, slug, filename string, r io.Reader) (string, error) {
	if err := validateSlug(slug); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported photo extension %q", ext)
	}

	if err := s.removeAll(slug); err != nil {
		return "", err
	}

	name := slug + ext
	file, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		return "", fmt.Errorf("write photo: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close photo: %w", err)
	}

	return fmt.Sprintf("%s/%s?v=%d", s.baseURL, name, s.now().Unix()), nil
}

// Remove deletes any stored photo for the slug.
func (s *DiskStore) Remove(_ context.Context, slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}
	return s.removeAll(slug)
}

func (s *DiskStore) removeAll(slug string) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, slug+".*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("empty slug")
	}
	for _, ch := range slug {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9':
		case ch == '-':
		default:
			return fmt.Errorf("invalid slug %q", slug)
		}
	}
	return nil
}
