package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/atelier/internal/blobstore"
)

// mediaSource serves stored blobs; local.Store implements it.
type mediaSource interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, string, error)
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	bucket, key := r.PathValue("bucket"), r.PathValue("key")
	reader, mimeType, err := s.media.Open(r.Context(), bucket, key)
	if errors.Is(err, blobstore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var statusErr *blobstore.StatusError
	if errors.As(err, &statusErr) {
		http.Error(w, statusErr.Message, statusErr.StatusCode)
		return
	}
	if err != nil {
		http.Error(w, "failed to read media", http.StatusInternalServerError)
		s.logger.Error("open media failed", "bucket", bucket, "key", key, "error", err)
		return
	}
	defer closeWithLog(reader, "media reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write media failed", "bucket", bucket, "key", key, "error", err)
	}
}
