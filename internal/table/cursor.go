package table

import (
	"errors"
	"fmt"

	"github.com/tuannm99/leafdb/internal/btree"
	"github.com/tuannm99/leafdb/internal/record"
)

// Cursor is a position (page, cell) in the tree. It is a plain value,
// created per operation and dropped when the operation ends.
type Cursor struct {
	table      *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// withNode pins the cursor's page for the duration of fn.
func (c *Cursor) withNode(dirty bool, fn func(btree.Node) error) error {
	return c.table.withNode(c.PageNum, dirty, fn)
}

// checkCell fails when the cursor sits past the last cell, as an End cursor does.
func (c *Cursor) checkCell(n btree.Node) error {
	if c.CellNum >= n.NumCells() {
		return fmt.Errorf("%w: cell %d of %d", btree.ErrCellOutOfRange, c.CellNum, n.NumCells())
	}
	return nil
}

// Key returns the key of the cell under the cursor.
func (c *Cursor) Key() (uint32, error) {
	var key uint32
	err := c.withNode(false, func(n btree.Node) error {
		if err := c.checkCell(n); err != nil {
			return err
		}
		key = n.Key(c.CellNum)
		return nil
	})
	return key, err
}

// Value decodes the row under the cursor.
func (c *Cursor) Value() (record.Row, error) {
	var row record.Row
	err := c.withNode(false, func(n btree.Node) error {
		if err := c.checkCell(n); err != nil {
			return err
		}
		row = n.Row(c.CellNum)
		return nil
	})
	return row, err
}

// Advance moves to the next cell and flags the end of the table once the
// page is exhausted. A multi-level tree would follow to the next leaf here.
func (c *Cursor) Advance() error {
	return c.withNode(false, func(n btree.Node) error {
		c.CellNum++
		if c.CellNum >= n.NumCells() {
			c.EndOfTable = true
		}
		return nil
	})
}

// insert writes row at the cursor position, shifting later cells right.
func (c *Cursor) insert(row record.Row) error {
	return c.withNode(true, func(n btree.Node) error {
		if n.IsFull() {
			return ErrTableFull
		}
		if c.CellNum < n.NumCells() && n.Key(c.CellNum) == row.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateKey, row.ID)
		}

		if err := n.LeafInsert(c.CellNum, row.ID, row); err != nil {
			if errors.Is(err, btree.ErrLeafFull) {
				return ErrTableFull
			}
			return err
		}
		return nil
	})
}
