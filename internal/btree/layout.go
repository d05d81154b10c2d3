package btree

import (
	"github.com/tuannm99/leafdb/internal/record"
	"github.com/tuannm99/leafdb/internal/storage"
)

// NodeType is the one-byte tag at the start of every node page.
type NodeType uint8

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

func (t NodeType) String() string {
	switch t {
	case NodeInternal:
		return "internal"
	case NodeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Common node header:
// [node type u8][is root u8][parent page u32]
const (
	NodeTypeSize         = 1
	NodeTypeOffset       = 0
	IsRootSize           = 1
	IsRootOffset         = NodeTypeOffset + NodeTypeSize
	ParentPointerSize    = 4
	ParentPointerOffset  = IsRootOffset + IsRootSize
	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize // 6
)

// Leaf node header and body:
// [common header][num cells u32][cell 0][cell 1]...
// cell = [key u32][row RowSize]
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumCellsSize // 10

	LeafNodeKeySize     = 4
	LeafNodeKeyOffset   = 0
	LeafNodeValueSize   = record.RowSize
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize    = LeafNodeKeySize + LeafNodeValueSize // 297

	LeafNodeSpaceForCells = storage.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize // 13
)

// Internal node layout is reserved for multi-level trees and is not written
// by this package yet:
// [common header][num keys u32][right child u32][child u32, key u32]...
const (
	InternalNodeNumKeysSize      = 4
	InternalNodeNumKeysOffset    = CommonNodeHeaderSize
	InternalNodeRightChildSize   = 4
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize
	InternalNodeHeaderSize       = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize
	InternalNodeCellSize         = 4 + 4
)
