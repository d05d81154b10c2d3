package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/tuannm99/leafdb/internal/alias/util"
)

// DiskFile is a flat sequence of PageSize pages in one file.
// Page n lives at byte offset n*PageSize.
type DiskFile struct {
	path string

	mu     sync.Mutex
	file   *os.File
	length int64
}

// OpenFile opens (creating if absent) the table file at path.
// A length that is not a multiple of PageSize is reported as ErrCorruptFile.
func OpenFile(path string) (*DiskFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, FileMode0755); err != nil {
			return nil, fmt.Errorf("%w: create dir: %w", ErrStorageIO, err)
		}
	}
	// RDWR | CREATE (no truncate)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageIO, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		util.CloseFileFunc(f)
		return nil, fmt.Errorf("%w: stat %s: %w", ErrStorageIO, path, err)
	}
	size := info.Size()
	if size%PageSize != 0 {
		util.CloseFileFunc(f)
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorruptFile, path, size)
	}

	return &DiskFile{path: path, file: f, length: size}, nil
}

func (d *DiskFile) Path() string { return d.path }

// Length returns the current file length in bytes.
func (d *DiskFile) Length() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.length
}

// PersistedPages returns how many pages the file currently holds.
func (d *DiskFile) PersistedPages() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(d.length / PageSize)
}

// ReadPage reads exactly one page into dst. Bytes past EOF are zero-filled,
// so a short trailing read is not an error.
func (d *DiskFile) ReadPage(pageNum uint32, dst []byte) error {
	if len(dst) != PageSize {
		return ErrWrongSize
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return ErrClosed
	}

	n, err := d.file.ReadAt(dst, int64(pageNum)*PageSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: read page %d: %w", ErrStorageIO, pageNum, err)
	}
	clear(dst[n:])
	return nil
}

// WritePage writes exactly one page from src at the page's offset.
func (d *DiskFile) WritePage(pageNum uint32, src []byte) error {
	if len(src) != PageSize {
		return ErrWrongSize
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return ErrClosed
	}

	off := int64(pageNum) * PageSize
	n, err := d.file.WriteAt(src, off)
	if err != nil {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, err)
	}
	if n != PageSize {
		return fmt.Errorf("%w: write page %d: %w", ErrStorageIO, pageNum, io.ErrShortWrite)
	}
	if end := off + PageSize; end > d.length {
		d.length = end
	}
	return nil
}

// Sync commits the file contents to stable storage.
func (d *DiskFile) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return ErrClosed
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %w", ErrStorageIO, err)
	}
	return nil
}

// Close releases the file handle. Closing twice is a no-op.
func (d *DiskFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	if err != nil {
		return fmt.Errorf("%w: close: %w", ErrStorageIO, err)
	}
	return nil
}
