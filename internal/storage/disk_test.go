package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"portfolio_api/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	require.NoError(t, store.Save(context.Background(), "shop-abc.png", bytes.NewReader(data), int64(len(data)), "image/png"))

	blob, err := store.Open(context.Background(), "shop-abc.png")
	require.NoError(t, err)
	defer blob.Close()

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDiskStore_Open_Missing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "nope.png")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDiskStore_Save_RejectsDuplicateName(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "a.png", bytes.NewReader([]byte{1}), 1, "image/png"))
	assert.Error(t, store.Save(context.Background(), "a.png", bytes.NewReader([]byte{2}), 1, "image/png"))
}

func TestDiskStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape.png", bytes.NewReader([]byte{1}), 1, "image/png")
	assert.Error(t, err)

	_, err = store.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
