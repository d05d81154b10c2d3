package btree

import "errors"

var (
	// ErrLeafFull is returned when a leaf already holds LeafNodeMaxCells cells.
	// Leaves are never split, so the caller must surface this as table full.
	ErrLeafFull = errors.New("btree: leaf node is full")

	ErrCellOutOfRange = errors.New("btree: cell index out of range")

	// ErrInternalNode is returned when a search reaches an internal node;
	// only single-leaf trees are supported.
	ErrInternalNode = errors.New("btree: searching internal nodes is not supported")
)
