// Package supabase stores blobs in a hosted Supabase Storage project through
// its REST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vbonduro/atelier/internal/blobstore"
)

const (
	objectPath = "/storage/v1/object/"
	publicPath = "/storage/v1/object/public/"
)

type Store struct {
	client  *resty.Client
	baseURL string
}

// New returns a store for the project at baseURL authenticated with the
// service-role key.
func New(baseURL, serviceKey string) *Store {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(serviceKey).
		SetHeader("apikey", serviceKey).
		SetTimeout(60 * time.Second)
	return &Store{client: client, baseURL: baseURL}
}

func (s *Store) Put(ctx context.Context, bucket, key, contentType string, r io.Reader) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(r).
		Post(objectPath + url.PathEscape(bucket) + "/" + escapeKey(key))
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if resp.IsError() {
		return "", &blobstore.StatusError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}
	return s.publicURL(bucket, key), nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	var removed []json.RawMessage
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": {key}}).
		SetResult(&removed).
		Delete(objectPath + url.PathEscape(bucket))
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return blobstore.ErrNotFound
	}
	if resp.IsError() {
		return &blobstore.StatusError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}
	// Removing a missing key succeeds with an empty list.
	if len(removed) == 0 {
		return blobstore.ErrNotFound
	}
	return nil
}

func (s *Store) Locate(rawURL string) (string, string, bool) {
	rest, ok := strings.CutPrefix(rawURL, s.baseURL+publicPath)
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

func (s *Store) publicURL(bucket, key string) string {
	return s.baseURL + publicPath + url.PathEscape(bucket) + "/" + escapeKey(key)
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// errorMessage extracts the storage service's own message from an error
// response, falling back to the raw body.
func errorMessage(resp *resty.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if msg := strings.TrimSpace(resp.String()); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode())
}
