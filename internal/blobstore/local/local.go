// Package local stores blobs on the filesystem, one directory per bucket,
// and issues URLs served by the web package under /media/.
package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vbonduro/atelier/internal/blobstore"
)

// MediaPath is the URL path under which local blobs are served.
const MediaPath = "/media/"

type Store struct {
	basePath  string
	publicURL string
}

// New creates the base directory if needed. publicBaseURL is the absolute
// origin the site is reachable on, e.g. https://studio.example.com.
func New(basePath, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &Store{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicBaseURL, "/") + MediaPath,
	}, nil
}

func (s *Store) Put(ctx context.Context, bucket, key, contentType string, r io.Reader) (string, error) {
	filePath, err := s.safeJoin(bucket, key)
	if err != nil {
		return "", &blobstore.StatusError{StatusCode: 400, Message: err.Error()}
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after write error", "error", rerr)
		}
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Error("failed to remove file after close error", "error", rerr)
		}
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return s.publicURL + escapePath(bucket+"/"+key), nil
}

// Open returns the object and a content type derived from its extension.
func (s *Store) Open(ctx context.Context, bucket, key string) (io.ReadCloser, string, error) {
	filePath, err := s.safeJoin(bucket, key)
	if err != nil {
		return nil, "", &blobstore.StatusError{StatusCode: 400, Message: err.Error()}
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", blobstore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, "", blobstore.ErrNotFound
	}
	return f, extToMimeType(filePath), nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	filePath, err := s.safeJoin(bucket, key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return blobstore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Store) Locate(rawURL string) (string, string, bool) {
	rest, ok := strings.CutPrefix(rawURL, s.publicURL)
	if !ok {
		return "", "", false
	}
	unescaped, err := url.PathUnescape(rest)
	if err != nil {
		return "", "", false
	}
	bucket, key, ok := strings.Cut(unescaped, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// safeJoin resolves bucket/key below basePath and rejects directory traversal.
func (s *Store) safeJoin(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}

	absBase, err := filepath.Abs(filepath.Join(s.basePath, bucket))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(absBase, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func extToMimeType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
