package storage

// Page is one fixed-size in-memory page buffer.
//
// +------------------+ 0
// | node header      |
// | cells ...        |
// |                  |
// +------------------+ PageSize (4096)
//
// The byte layout inside Buf belongs to the btree package.
type Page struct {
	Buf []byte // fixed-size 4KB
	id  uint32
}

// NewPage returns a zeroed page for pageID.
func NewPage(pageID uint32) *Page {
	return &Page{Buf: make([]byte, PageSize), id: pageID}
}

func (p *Page) PageID() uint32 { return p.id }

// Reset zeroes the page buffer.
func (p *Page) Reset() {
	clear(p.Buf)
}
