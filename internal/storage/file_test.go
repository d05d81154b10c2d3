package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) (*DiskFile, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	f, err := OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, path
}

func TestOpenFile_CreatesEmpty(t *testing.T) {
	f, path := newTestFile(t)

	assert.Equal(t, int64(0), f.Length())
	assert.Equal(t, uint32(0), f.PersistedPages())

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestOpenFile_CorruptLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	require.NoError(t, os.WriteFile(path, make([]byte, PageSize+10), FileMode0644))

	_, err := OpenFile(path)
	require.ErrorIs(t, err, ErrCorruptFile)
}

func TestWriteReadPage(t *testing.T) {
	f, _ := newTestFile(t)

	src := make([]byte, PageSize)
	for i := range src {
		src[i] = byte(i % 251)
	}
	require.NoError(t, f.WritePage(2, src))

	// writing page 2 extends the file over pages 0..2
	assert.Equal(t, int64(3*PageSize), f.Length())
	assert.Equal(t, uint32(3), f.PersistedPages())

	dst := make([]byte, PageSize)
	require.NoError(t, f.ReadPage(2, dst))
	assert.Equal(t, src, dst)

	// the hole before it reads back as zeros
	require.NoError(t, f.ReadPage(0, dst))
	assert.Equal(t, make([]byte, PageSize), dst)
}

func TestReadPage_PastEOFIsZeroFilled(t *testing.T) {
	f, _ := newTestFile(t)

	dst := make([]byte, PageSize)
	for i := range dst {
		dst[i] = 0xAB
	}
	require.NoError(t, f.ReadPage(5, dst))
	assert.Equal(t, make([]byte, PageSize), dst)
}

func TestPage_WrongSize(t *testing.T) {
	f, _ := newTestFile(t)

	require.ErrorIs(t, f.ReadPage(0, make([]byte, 10)), ErrWrongSize)
	require.ErrorIs(t, f.WritePage(0, make([]byte, 10)), ErrWrongSize)
}

func TestClose_Twice(t *testing.T) {
	f, _ := newTestFile(t)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	require.ErrorIs(t, f.ReadPage(0, make([]byte, PageSize)), ErrClosed)
	require.ErrorIs(t, f.WritePage(0, make([]byte, PageSize)), ErrClosed)
}

func TestNewPage(t *testing.T) {
	p := NewPage(7)
	assert.Equal(t, uint32(7), p.PageID())
	assert.Len(t, p.Buf, PageSize)

	p.Buf[10] = 1
	p.Reset()
	assert.Equal(t, byte(0), p.Buf[10])
}
