package btree

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tuannm99/leafdb/internal/record"
	"github.com/tuannm99/leafdb/internal/storage"
)

// InitializeLeaf turns the page into an empty, non-root leaf.
func (n Node) InitializeLeaf() {
	n.SetNodeType(NodeLeaf)
	n.SetRoot(false)
	n.SetParent(0)
	n.SetNumCells(0)
}

// IsFull reports whether no more cells fit in the leaf.
func (n Node) IsFull() bool {
	return n.NumCells() >= LeafNodeMaxCells
}

// Validate rejects a leaf whose cell count read from disk cannot fit in
// one page. Every cell accessor relies on it.
func (n Node) Validate() error {
	if n.NodeType() == NodeLeaf && n.NumCells() > LeafNodeMaxCells {
		return fmt.Errorf("%w: page %d: leaf claims %d cells, max %d",
			storage.ErrCorruptFile, n.Page.PageID(), n.NumCells(), LeafNodeMaxCells)
	}
	return nil
}

// Find binary-searches the leaf for key. It returns the index of the cell
// holding key, or the index where key would be inserted to keep cells sorted.
func (n Node) Find(key uint32) uint32 {
	lo, hi := uint32(0), n.NumCells()
	for lo < hi {
		mid := lo + (hi-lo)/2
		k := n.Key(mid)
		switch {
		case key == k:
			return mid
		case key < k:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo
}

// LeafInsert puts (key, row) at cellNum, shifting later cells one slot right.
// Leaves are never split: a full leaf returns ErrLeafFull untouched.
func (n Node) LeafInsert(cellNum uint32, key uint32, row record.Row) error {
	num := n.NumCells()
	if num >= LeafNodeMaxCells {
		return ErrLeafFull
	}
	if cellNum > num {
		return fmt.Errorf("%w: %d > %d", ErrCellOutOfRange, cellNum, num)
	}

	// shift from the back so no cell is overwritten before it moves
	for i := num; i > cellNum; i-- {
		copy(n.Cell(i), n.Cell(i-1))
	}

	n.SetKey(cellNum, key)
	record.Serialize(row, n.Value(cellNum))
	n.SetNumCells(num + 1)

	slog.Debug("btree.Leaf.Insert",
		"key", key,
		"pageID", n.Page.PageID(),
		"cell", cellNum,
		"numCells", num+1,
	)
	return nil
}

// Dump prints the node's keys, one per line.
func (n Node) Dump(w io.Writer) error {
	if n.NodeType() != NodeLeaf {
		_, err := fmt.Fprintf(w, "%s (page %d)\n", n.NodeType(), n.Page.PageID())
		return err
	}
	num := n.NumCells()
	if _, err := fmt.Fprintf(w, "leaf (size %d)\n", num); err != nil {
		return err
	}
	for i := range num {
		if _, err := fmt.Fprintf(w, "  - %d : %d\n", i, n.Key(i)); err != nil {
			return err
		}
	}
	return nil
}

// PrintConstants writes the layout constants.
func PrintConstants(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"ROW_SIZE: %d\n"+
			"COMMON_NODE_HEADER_SIZE: %d\n"+
			"LEAF_NODE_HEADER_SIZE: %d\n"+
			"LEAF_NODE_CELL_SIZE: %d\n"+
			"LEAF_NODE_SPACE_FOR_CELLS: %d\n"+
			"LEAF_NODE_MAX_CELLS: %d\n",
		record.RowSize,
		CommonNodeHeaderSize,
		LeafNodeHeaderSize,
		LeafNodeCellSize,
		LeafNodeSpaceForCells,
		LeafNodeMaxCells,
	)
	return err
}
