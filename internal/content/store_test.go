package content

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atelier/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn, db.SQLite)
}

func latestValues(title string, sortOrder int64) map[string]any {
	return map[string]any{
		"title":      title,
		"comment":    "c",
		"alt_text":   "",
		"sort_order": sortOrder,
		"image_url":  "https://blobs.test/hero-images/latest-creations/1-" + title + ".jpg",
	}
}

func TestStoreInsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Insert(ctx, LatestCreations, latestValues("Foyer", 3))
	require.NoError(t, err)

	assert.Positive(t, rec.ID)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, "Foyer", rec.String("title"))
	assert.Equal(t, int64(3), rec.Int("sort_order"))
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.Get(ctx, LatestCreations, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Values, got.Values)
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Get(context.Background(), About, 99)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStoreListOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, v := range []struct {
		title string
		order int64
	}{{"c", 5}, {"a", 1}, {"b1", 3}, {"b2", 3}} {
		_, err := store.Insert(ctx, LatestCreations, latestValues(v.title, v.order))
		require.NoError(t, err)
	}

	list, err := store.List(ctx, LatestCreations)
	require.NoError(t, err)
	require.Len(t, list, 4)

	titles := make([]string, len(list))
	for i, r := range list {
		titles[i] = r.String("title")
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, titles, "ties keep insertion order")
}

func TestStoreListEmptyIsNotNil(t *testing.T) {
	store := openTestStore(t)

	list, err := store.List(context.Background(), Projects)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStoreProjectsListAndNullable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Insert(ctx, Projects, map[string]any{
		"title":       "Loft",
		"description": "d",
		"heading":     nil,
		"list":        nil,
		"location":    "Montreal",
		"images":      []string{"https://blobs.test/p/1.jpg", "https://blobs.test/p/2.jpg"},
	})
	require.NoError(t, err)

	assert.Nil(t, rec.Values["heading"])
	assert.Equal(t, []string{"https://blobs.test/p/1.jpg", "https://blobs.test/p/2.jpg"}, rec.Strings("images"))
	assert.Equal(t, rec.Strings("images"), rec.URLs(Projects))
}

func TestStoreTop(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	top, err := store.Top(ctx, About)
	require.NoError(t, err)
	assert.Nil(t, top)

	first, err := store.Insert(ctx, About, map[string]any{"heading": "first"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, About, map[string]any{"heading": "second"})
	require.NoError(t, err)

	top, err = store.Top(ctx, About)
	require.NoError(t, err)
	assert.Equal(t, first.ID, top.ID)
}

func TestStoreUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Insert(ctx, About, map[string]any{"heading": "old", "image_url": "https://x/y.jpg"})
	require.NoError(t, err)

	updated, err := store.Update(ctx, About, rec.ID, 0, map[string]any{"heading": "new", "image_url": "https://x/y.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.String("heading"))
	assert.Equal(t, "https://x/y.jpg", updated.String("image_url"))
	assert.Equal(t, int64(2), updated.Version)
}

func TestStoreUpdateVersionConflict(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Insert(ctx, About, map[string]any{"heading": "old"})
	require.NoError(t, err)

	_, err = store.Update(ctx, About, rec.ID, rec.Version, map[string]any{"heading": "first writer"})
	require.NoError(t, err)

	_, err = store.Update(ctx, About, rec.ID, rec.Version, map[string]any{"heading": "second writer"})
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := store.Get(ctx, About, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.String("heading"))
}

func TestStoreUpdateMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Update(context.Background(), About, 42, 0, map[string]any{"heading": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := store.Insert(ctx, Renovations, map[string]any{"title": "t", "description": "d", "image_url": "u"})
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, Renovations, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "u", deleted.String("image_url"))

	list, err := store.List(ctx, Renovations)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = store.Delete(ctx, Renovations, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn, db.Postgres), mock
}

func renovationRow(id, version int64) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "version", "title", "description", "image_url", "created_at", "updated_at"}).
		AddRow(id, version, "Kitchen", "Full gut", "https://x/k.jpg", now, now)
}

func TestStorePostgresPlaceholders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO renovations (title, description, image_url) VALUES ($1, $2, $3) RETURNING id").
		WithArgs("Kitchen", "Full gut", "https://x/k.jpg").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT id, version, title, description, image_url, created_at, updated_at FROM renovations WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnRows(renovationRow(7, 1))

	rec, err := store.Insert(context.Background(), Renovations, map[string]any{
		"title": "Kitchen", "description": "Full gut", "image_url": "https://x/k.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePostgresVersionConflict(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE renovations SET title = $1, description = $2, image_url = $3, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = $4 AND version = $5").
		WithArgs("Kitchen", "Full gut", "https://x/k.jpg", int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, version, title, description, image_url, created_at, updated_at FROM renovations WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnRows(renovationRow(7, 2))

	_, err := store.Update(context.Background(), Renovations, 7, 1, map[string]any{
		"title": "Kitchen", "description": "Full gut", "image_url": "https://x/k.jpg",
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListOrderClause(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, version, title, description, heading, list, location, images, created_at, updated_at FROM projects ORDER BY created_at DESC, id DESC").
		WillReturnError(sql.ErrConnDone)

	_, err := store.List(context.Background(), Projects)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
