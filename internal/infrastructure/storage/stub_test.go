package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("https://files.test/reports")
	fixed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	data := []byte("%PDF-1.7")
	require.NoError(t, s.Upload(ctx, "t1/i1.pdf", data, "application/pdf"))
	data[0] = 'X' // the store keeps its own copy

	got, contentType, ok := s.Get("t1/i1.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.7", string(got))
	assert.Equal(t, "application/pdf", contentType)

	exists, err := s.ObjectExists(ctx, "t1/i1.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	u, expiresAt, err := s.GenerateDownloadURL(ctx, "t1/i1.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)
	assert.Equal(t, "https://files.test/reports/t1%2Fi1.pdf?expires=2026-04-01T13%3A00%3A00Z", u)

	require.NoError(t, s.DeleteObject(ctx, "t1/i1.pdf"))
	exists, err = s.ObjectExists(ctx, "t1/i1.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryObjectStorage_RequiresKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("")

	assert.ErrorIs(t, s.Upload(ctx, "", nil, ""), ErrKeyRequired)
	_, _, err := s.GenerateDownloadURL(ctx, "", 0)
	assert.ErrorIs(t, err, ErrKeyRequired)
	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrKeyRequired)
}

func TestMemoryObjectStorage_DefaultExpiry(t *testing.T) {
	s := NewMemoryObjectStorage("")
	u, expiresAt, err := s.GenerateDownloadURL(context.Background(), "k", 0)
	require.NoError(t, err)
	assert.Contains(t, u, "memory://reports/k?expires=")
	assert.WithinDuration(t, time.Now().Add(defaultPresignExpiration), expiresAt, 5*time.Second)
}
