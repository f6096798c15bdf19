package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vbonduro/atelier/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestWriteInquiries(t *testing.T) {
	received := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	inquiries := []*domain.ContactInquiry{
		{
			ID:          2,
			Name:        "Ana",
			Phone:       "555-0100",
			Email:       strPtr("ana@example.com"),
			ProjectType: strPtr("kitchen"),
			Message:     strPtr("Hello"),
			Status:      domain.StatusContacted,
			CreatedAt:   received,
		},
		{
			ID:        1,
			Name:      "Ben",
			Phone:     "555-0101",
			Status:    domain.StatusPending,
			CreatedAt: received.Add(-time.Hour),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInquiries(&buf, inquiries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "2", rows[1][0])
	assert.Equal(t, "2025-03-04 10:30:00", rows[1][1])
	assert.Equal(t, "contacted", rows[1][2])
	assert.Equal(t, "Ana", rows[1][3])
	assert.Equal(t, "ana@example.com", rows[1][5])
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "kitchen", rows[1][7])
	assert.Equal(t, "Hello", rows[1][13])

	assert.Equal(t, "Ben", rows[2][3])
	assert.Equal(t, "pending", rows[2][2])
}

func TestWriteInquiriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInquiries(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, headers, rows[0])
}

func TestWriteInquiriesFreezesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInquiries(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	panes, err := f.GetPanes(SheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}
