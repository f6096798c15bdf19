package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/atelier/internal/db"
	"github.com/vbonduro/atelier/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func strPtr(s string) *string { return &s }

func TestInquiryStoreCreate(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)
	ctx := context.Background()

	inquiry, err := store.Create(ctx, &domain.ContactInquiry{
		Name:        "Ana",
		Phone:       "514-555-0100",
		Email:       strPtr(""),
		ProjectType: strPtr("Renovation"),
		Budget:      strPtr("50000"),
	})
	require.NoError(t, err)

	assert.Positive(t, inquiry.ID)
	assert.Equal(t, "Ana", inquiry.Name)
	assert.Equal(t, "514-555-0100", inquiry.Phone)
	require.NotNil(t, inquiry.Email)
	assert.Equal(t, "", *inquiry.Email, "an empty email stays an empty string")
	assert.Nil(t, inquiry.Address)
	assert.Nil(t, inquiry.Message)
	assert.Equal(t, "50000", *inquiry.Budget)
	assert.Equal(t, domain.StatusPending, inquiry.Status)
	assert.False(t, inquiry.CreatedAt.IsZero())
}

func TestInquiryStoreGetByIDNotFound(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)

	inquiry, err := store.GetByID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, inquiry)
}

func TestInquiryStoreListNewestFirst(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := store.Create(ctx, &domain.ContactInquiry{Name: name, Phone: "1"})
		require.NoError(t, err)
	}

	inquiries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, inquiries, 3)
	assert.Equal(t, "third", inquiries[0].Name)
	assert.Equal(t, "first", inquiries[2].Name)
}

func TestInquiryStoreListEmpty(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)

	inquiries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, inquiries)
	assert.Empty(t, inquiries)
}

func TestInquiryStoreUpdateStatus(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)
	ctx := context.Background()

	inquiry, err := store.Create(ctx, &domain.ContactInquiry{Name: "Ana", Phone: "1"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, inquiry.ID, domain.StatusScheduled))

	got, err := store.GetByID(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, got.Status)
}

func TestInquiryStoreUpdateStatusNotFound(t *testing.T) {
	store := NewInquiryStore(openTestDB(t), db.SQLite)

	err := store.UpdateStatus(context.Background(), 42, domain.StatusContacted)
	assert.ErrorIs(t, err, ErrNotFound)
}
