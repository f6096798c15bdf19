package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atelier/internal/blobstore"
)

func TestPut(t *testing.T) {
	var gotMethod, gotPath, gotUpsert, gotAuth, gotKey, gotType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"hero-images/about-section/1-a.jpg"}`))
	}))
	defer server.Close()

	store := New(server.URL+"/", "service-key")
	url, err := store.Put(context.Background(), "hero-images", "about-section/1-a b.jpg", "image/jpeg", bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/storage/v1/object/hero-images/about-section/1-a%20b.jpg", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, "jpeg", string(gotBody))
	assert.Equal(t, server.URL+"/storage/v1/object/public/hero-images/about-section/1-a%20b.jpg", url)
}

func TestPutRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"404","error":"Bucket not found","message":"Bucket not found"}`))
	}))
	defer server.Close()

	store := New(server.URL, "k")
	_, err := store.Put(context.Background(), "missing", "a.jpg", "image/jpeg", bytes.NewReader([]byte("x")))

	var statusErr *blobstore.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Bucket not found", statusErr.Message)
}

func TestPutTransportError(t *testing.T) {
	store := New("http://127.0.0.1:1", "k")
	_, err := store.Put(context.Background(), "b", "a.jpg", "image/jpeg", bytes.NewReader([]byte("x")))
	require.Error(t, err)

	var statusErr *blobstore.StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestDelete(t *testing.T) {
	var gotPrefixes []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/project-images", r.URL.Path)
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPrefixes = body.Prefixes
		w.Header().Set("Content-Type", "application/json")
		if body.Prefixes[0] == "gone.jpg" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"1-a.jpg"}]`))
	}))
	defer server.Close()

	store := New(server.URL, "k")
	require.NoError(t, store.Delete(context.Background(), "project-images", "1-a.jpg"))
	assert.Equal(t, []string{"1-a.jpg"}, gotPrefixes)

	err := store.Delete(context.Background(), "project-images", "gone.jpg")
	assert.True(t, errors.Is(err, blobstore.ErrNotFound))
}

func TestLocate(t *testing.T) {
	store := New("https://abc.supabase.co", "k")

	bucket, key, ok := store.Locate("https://abc.supabase.co/storage/v1/object/public/hero-images/latest-creations/1-foyer%20a.jpg")
	require.True(t, ok)
	assert.Equal(t, "hero-images", bucket)
	assert.Equal(t, "latest-creations/1-foyer a.jpg", key)

	_, _, ok = store.Locate("https://other.supabase.co/storage/v1/object/public/hero-images/x.jpg")
	assert.False(t, ok)
}
