package table

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tuannm99/leafdb/internal/btree"
	"github.com/tuannm99/leafdb/internal/pager"
	"github.com/tuannm99/leafdb/internal/record"
)

var (
	ErrDuplicateKey = errors.New("table: duplicate key")
	ErrTableFull    = fmt.Errorf("table: table full: %w", btree.ErrLeafFull)
)

// DefaultRowCacheEntries is the default size of the row cache in front of Get.
const DefaultRowCacheEntries = 1024

// Options configure Open.
type Options struct {
	Pager pager.Options
	// RowCacheEntries bounds the point-lookup cache. Zero disables it.
	RowCacheEntries int64
}

func DefaultOptions() Options {
	return Options{
		Pager:           pager.DefaultOptions(),
		RowCacheEntries: DefaultRowCacheEntries,
	}
}

// Table is one ordered-key table stored as a B-tree in a single file.
// The root is page 0 and is always a leaf.
type Table struct {
	RootPageNum uint32

	pager *pager.Pager
	rows  *ristretto.Cache[uint32, record.Row]
}

// Open opens the table file at path, initializing page 0 as an empty root
// leaf when the file is new.
func Open(path string, opts Options) (*Table, error) {
	p, err := pager.Open(path, opts.Pager)
	if err != nil {
		return nil, err
	}

	t := &Table{RootPageNum: 0, pager: p}

	if p.NumPages() == 0 {
		err := t.withNode(t.RootPageNum, true, func(n btree.Node) error {
			n.InitializeLeaf()
			n.SetRoot(true)
			return nil
		})
		if err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	if opts.RowCacheEntries > 0 {
		t.rows, err = ristretto.NewCache(&ristretto.Config[uint32, record.Row]{
			NumCounters:        opts.RowCacheEntries * 10,
			MaxCost:            opts.RowCacheEntries,
			BufferItems:        64,
			IgnoreInternalCost: true, // one row == one unit of cost
		})
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("row cache: %w", err)
		}
	}

	slog.Info("table.Open", "path", path, "numPages", p.NumPages())
	return t, nil
}

// Pager exposes the underlying pager.
func (t *Table) Pager() *pager.Pager { return t.pager }

// withNode pins page pageNum, runs fn on it and unpins, marking the page
// dirty when asked and fn succeeded. A corrupt node never reaches fn.
func (t *Table) withNode(pageNum uint32, dirty bool, fn func(btree.Node) error) (err error) {
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	defer func() {
		if uerr := t.pager.Unpin(page, dirty && err == nil); uerr != nil && err == nil {
			err = uerr
		}
	}()
	n := btree.Node{Page: page}
	if err := n.Validate(); err != nil {
		return err
	}
	return fn(n)
}

// Start returns a cursor at the first cell of the table.
func (t *Table) Start() (Cursor, error) {
	c := Cursor{table: t, PageNum: t.RootPageNum}
	err := t.withNode(t.RootPageNum, false, func(n btree.Node) error {
		c.EndOfTable = n.NumCells() == 0
		return nil
	})
	return c, err
}

// End returns a cursor one past the last cell of the table.
func (t *Table) End() (Cursor, error) {
	c := Cursor{table: t, PageNum: t.RootPageNum, EndOfTable: true}
	err := t.withNode(t.RootPageNum, false, func(n btree.Node) error {
		c.CellNum = n.NumCells()
		return nil
	})
	return c, err
}

// Find returns a cursor at key, or at the position where key would be inserted.
func (t *Table) Find(key uint32) (Cursor, error) {
	c := Cursor{table: t, PageNum: t.RootPageNum}
	err := t.withNode(t.RootPageNum, false, func(n btree.Node) error {
		if n.NodeType() != btree.NodeLeaf {
			return fmt.Errorf("%w: page %d", btree.ErrInternalNode, t.RootPageNum)
		}
		c.CellNum = n.Find(key)
		c.EndOfTable = c.CellNum >= n.NumCells()
		return nil
	})
	return c, err
}

// Insert adds row under row.ID at the position Find picks for it.
// It returns ErrTableFull when the root leaf has no room and ErrDuplicateKey
// when row.ID is already present; neither case mutates the table.
func (t *Table) Insert(row record.Row) error {
	c, err := t.Find(row.ID)
	if err != nil {
		return err
	}
	if err := c.insert(row); err != nil {
		return err
	}
	slog.Debug("table.Insert", "id", row.ID, "cell", c.CellNum)
	return nil
}

// Get looks up a single row by id.
func (t *Table) Get(id uint32) (record.Row, bool, error) {
	if t.rows != nil {
		if row, ok := t.rows.Get(id); ok {
			return row, true, nil
		}
	}

	c, err := t.Find(id)
	if err != nil {
		return record.Row{}, false, err
	}
	if c.EndOfTable {
		return record.Row{}, false, nil
	}
	row, err := c.Value()
	if err != nil {
		return record.Row{}, false, err
	}
	if row.ID != id {
		return record.Row{}, false, nil
	}

	if t.rows != nil {
		t.rows.Set(id, row, 1)
	}
	return row, true, nil
}

// Len returns the number of rows.
func (t *Table) Len() (uint32, error) {
	var n uint32
	err := t.withNode(t.RootPageNum, false, func(node btree.Node) error {
		n = node.NumCells()
		return nil
	})
	return n, err
}

// Scan calls fn for every row in ascending id order, stopping at the first error.
func (t *Table) Scan(fn func(row record.Row) error) error {
	for row, err := range t.All() {
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// All returns the rows in ascending id order. Each range over the sequence
// walks a fresh cursor once.
func (t *Table) All() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		c, err := t.Start()
		if err != nil {
			yield(record.Row{}, err)
			return
		}
		for !c.EndOfTable {
			row, err := c.Value()
			if err != nil {
				yield(record.Row{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
			if err := c.Advance(); err != nil {
				yield(record.Row{}, err)
				return
			}
		}
	}
}

// Dump prints the root node.
func (t *Table) Dump(w io.Writer) error {
	return t.withNode(t.RootPageNum, false, func(n btree.Node) error {
		return n.Dump(w)
	})
}

// Close flushes every cached page and releases the file.
func (t *Table) Close() error {
	if t.rows != nil {
		t.rows.Close()
		t.rows = nil
	}
	err := t.pager.Close()
	slog.Info("table.Close", "numPages", t.pager.NumPages(), "err", err)
	return err
}
