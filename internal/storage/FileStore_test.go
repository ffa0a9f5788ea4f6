package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpd/internal/testutil"
)

func newTestFileStore(t *testing.T, path string) *FileStore {
	t.Helper()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	fs, err := NewFileStore(path, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	return fs
}

func TestFileStore_GetMissing(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "profile.dat"))

	_, err := fs.Get(context.Background(), "codingProfile")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SetGet(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "profile.dat"))
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, "codingProfile", []byte(`{"leetcode":"alice"}`)))

	val, err := fs.Get(ctx, "codingProfile")
	require.NoError(t, err)
	assert.Equal(t, `{"leetcode":"alice"}`, string(val))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.dat")
	ctx := context.Background()

	first := newTestFileStore(t, path)
	require.NoError(t, first.Set(ctx, "codingProfile", []byte(`{"gfg":"bob"}`)))
	require.NoError(t, first.Set(ctx, "codingProfile", []byte(`{"gfg":"carol"}`)))
	require.NoError(t, first.Close())

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	second := newTestFileStore(t, path)
	val, err := second.Get(ctx, "codingProfile")
	require.NoError(t, err)
	assert.Equal(t, `{"gfg":"carol"}`, string(val))
}

func TestFileStore_GetReturnsCopy(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "profile.dat"))
	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "k", []byte("abc")))

	val, _ := fs.Get(ctx, "k")
	val[0] = 'X'

	again, _ := fs.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFileStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0644))

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	_, err = NewFileStore(path, comp, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestFileStore_CompressError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	}
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "profile.dat"), comp, &testutil.MockLogger{})
	require.NoError(t, err)

	err = fs.Set(context.Background(), "k", []byte("v"))
	assert.Error(t, err)

	_, err = fs.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound, "failed write is rolled back")
}

func TestFileStore_IdentityCompressorIsPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.dat")
	fs, err := NewFileStore(path, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, fs.Set(context.Background(), "k", []byte("v")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"entries":{"k":"dg=="}}`, string(raw))
}

func TestFileStore_CancelledContext(t *testing.T) {
	fs := newTestFileStore(t, filepath.Join(t.TempDir(), "profile.dat"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fs.Set(ctx, "k", []byte("v")), context.Canceled)
}
