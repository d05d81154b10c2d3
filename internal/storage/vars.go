package storage

import (
	"errors"
)

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024

	// PageSize is the unit of disk I/O and of B-tree node storage.
	PageSize = OneKB * 4 // 4,096

	// DefaultMaxPages is the page-table ceiling of a table file.
	DefaultMaxPages = 100
)

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrPageOutOfBounds = errors.New("storage: page number out of bounds")
	ErrCorruptFile     = errors.New("storage: file length is not a whole number of pages")
	ErrStorageIO       = errors.New("storage: I/O error")
	ErrPageNotCached   = errors.New("storage: page is not cached")
	ErrWrongSize       = errors.New("storage: buffer size != PageSize")
	ErrClosed          = errors.New("storage: file is closed")
)
