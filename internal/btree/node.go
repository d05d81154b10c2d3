package btree

import (
	"github.com/tuannm99/leafdb/internal/alias/bx"
	"github.com/tuannm99/leafdb/internal/record"
	"github.com/tuannm99/leafdb/internal/storage"
)

// Node is a thin accessor over a page holding one B-tree node.
// Every accessor is computed from the layout constants; cell slots are cut
// from the page with a capped slice, so they can never reach past one cell
// or past the page.
type Node struct {
	Page *storage.Page
}

func (n Node) NodeType() NodeType     { return NodeType(bx.U8At(n.Page.Buf, NodeTypeOffset)) }
func (n Node) SetNodeType(t NodeType) { bx.PutU8At(n.Page.Buf, NodeTypeOffset, uint8(t)) }

func (n Node) IsRoot() bool { return bx.U8At(n.Page.Buf, IsRootOffset) != 0 }

func (n Node) SetRoot(root bool) {
	var v uint8
	if root {
		v = 1
	}
	bx.PutU8At(n.Page.Buf, IsRootOffset, v)
}

func (n Node) Parent() uint32     { return bx.U32At(n.Page.Buf, ParentPointerOffset) }
func (n Node) SetParent(p uint32) { bx.PutU32At(n.Page.Buf, ParentPointerOffset, p) }

func (n Node) NumCells() uint32     { return bx.U32At(n.Page.Buf, LeafNodeNumCellsOffset) }
func (n Node) SetNumCells(c uint32) { bx.PutU32At(n.Page.Buf, LeafNodeNumCellsOffset, c) }

func cellOffset(i uint32) int {
	return LeafNodeHeaderSize + int(i)*LeafNodeCellSize
}

// Cell returns the bytes of cell i.
func (n Node) Cell(i uint32) []byte {
	off := cellOffset(i)
	return n.Page.Buf[off : off+LeafNodeCellSize : off+LeafNodeCellSize]
}

func (n Node) Key(i uint32) uint32 {
	return bx.U32At(n.Cell(i), LeafNodeKeyOffset)
}

func (n Node) SetKey(i uint32, key uint32) {
	bx.PutU32At(n.Cell(i), LeafNodeKeyOffset, key)
}

// Value returns the serialized row slot of cell i.
func (n Node) Value(i uint32) []byte {
	return n.Cell(i)[LeafNodeValueOffset:]
}

// Row decodes the row stored in cell i.
func (n Node) Row(i uint32) record.Row {
	return record.Deserialize(n.Value(i))
}
