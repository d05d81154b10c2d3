package pager

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/tuannm99/leafdb/internal/storage"
)

var (
	ErrNoFreeFrame = errors.New("pager: no free frame available (all pinned)")
	ErrPageMissing = errors.New("pager: unpin of a page that is not cached")
)

// Options tune a Pager. The zero value means no page ceiling and an
// unbounded cache.
type Options struct {
	// MaxPages is the page-table ceiling; page numbers >= MaxPages are
	// rejected with storage.ErrPageOutOfBounds. Zero disables the check.
	MaxPages uint32
	// CacheCapacity bounds the number of resident pages. Zero keeps every
	// page resident until Close.
	CacheCapacity int
}

func DefaultOptions() Options {
	return Options{MaxPages: storage.DefaultMaxPages}
}

type frame struct {
	page  *storage.Page
	slot  int // replacer slot, -1 when the cache is unbounded
	dirty bool
	pin   int32
}

// Pager owns the table file and the cache of its pages.
type Pager struct {
	file *storage.DiskFile
	opts Options

	mu       sync.Mutex
	frames   map[uint32]*frame // page number -> frame; absent == not cached
	numPages uint32            // high-water mark of touched pages
	closed   bool

	// bounded cache only
	slots []uint32 // slot -> page number
	free  []int
	repl  Replacer
}

// Open opens (creating if absent) the file at path.
func Open(path string, opts Options) (*Pager, error) {
	f, err := storage.OpenFile(path)
	if err != nil {
		return nil, err
	}

	p := &Pager{
		file:     f,
		opts:     opts,
		frames:   make(map[uint32]*frame),
		numPages: f.PersistedPages(),
	}
	if opts.CacheCapacity > 0 {
		p.slots = make([]uint32, opts.CacheCapacity)
		p.free = make([]int, 0, opts.CacheCapacity)
		for i := opts.CacheCapacity - 1; i >= 0; i-- {
			p.free = append(p.free, i)
		}
		p.repl = newClockAdapter(opts.CacheCapacity)
	}

	slog.Debug("pager.Open",
		"path", path,
		"fileLength", f.Length(),
		"numPages", p.numPages,
	)
	return p, nil
}

func (p *Pager) Options() Options { return p.opts }

// NumPages returns the number of pages the table spans, counting pages that
// were touched but not flushed yet.
func (p *Pager) NumPages() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numPages
}

// FileLength returns the persisted file length in bytes.
func (p *Pager) FileLength() int64 { return p.file.Length() }

// Resident returns the number of cached pages.
func (p *Pager) Resident() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// GetPage pins and returns the page, loading it on first access.
// Every successful GetPage must be paired with an Unpin.
func (p *Pager) GetPage(pageNum uint32) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, storage.ErrClosed
	}
	if p.opts.MaxPages > 0 && pageNum >= p.opts.MaxPages {
		return nil, fmt.Errorf("%w: %d >= %d", storage.ErrPageOutOfBounds, pageNum, p.opts.MaxPages)
	}

	// 1) HIT
	if f, ok := p.frames[pageNum]; ok {
		wasZero := f.pin == 0
		f.pin++
		if p.repl != nil {
			p.repl.RecordAccess(f.slot)
			if wasZero {
				p.repl.SetEvictable(f.slot, false)
			}
		}
		return f.page, nil
	}

	// 2) MISS: find a slot, then load
	slot, err := p.acquireSlot()
	if err != nil {
		return nil, err
	}

	page := storage.NewPage(pageNum)
	if pageNum < p.file.PersistedPages() {
		if err := p.file.ReadPage(pageNum, page.Buf); err != nil {
			if slot >= 0 {
				p.free = append(p.free, slot)
			}
			return nil, err
		}
	}

	p.frames[pageNum] = &frame{page: page, slot: slot, pin: 1}
	if p.repl != nil {
		p.slots[slot] = pageNum
		p.repl.RecordAccess(slot)
		p.repl.SetEvictable(slot, false)
	}
	if pageNum+1 > p.numPages {
		p.numPages = pageNum + 1
	}

	slog.Debug("pager.GetPage.Load", "page", pageNum, "numPages", p.numPages)
	return page, nil
}

// acquireSlot returns a free replacer slot, evicting if needed.
// Unbounded caches always return -1.
func (p *Pager) acquireSlot() (int, error) {
	if p.repl == nil {
		return -1, nil
	}
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot, nil
	}

	// 3) Evict
	slot, ok := p.repl.Evict()
	if !ok {
		return -1, ErrNoFreeFrame
	}
	victimNum := p.slots[slot]
	victim := p.frames[victimNum]
	if victim == nil || victim.slot != slot {
		// nothing lives in the slot, reuse it as is
		return slot, nil
	}
	if victim.pin != 0 {
		// replacer and pin count disagree; keep tracking the slot as pinned
		p.repl.RecordAccess(slot)
		return -1, ErrNoFreeFrame
	}

	if victim.dirty {
		if err := p.file.WritePage(victimNum, victim.page.Buf); err != nil {
			// put victim back as evictable
			p.repl.RecordAccess(slot)
			p.repl.SetEvictable(slot, true)
			return -1, err
		}
	}
	delete(p.frames, victimNum)

	slog.Debug("pager.Evict", "page", victimNum, "dirty", victim.dirty)
	return slot, nil
}

// Unpin releases one pin on page and marks it dirty optionally.
func (p *Pager) Unpin(page *storage.Page, dirty bool) error {
	if page == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.frames[page.PageID()]
	if !ok || f.page != page {
		return fmt.Errorf("%w: page %d", ErrPageMissing, page.PageID())
	}
	if dirty {
		f.dirty = true
	}
	if f.pin > 0 {
		f.pin--
		if f.pin == 0 && p.repl != nil {
			p.repl.SetEvictable(f.slot, true)
		}
	}
	return nil
}

// Flush writes the whole page to its file offset. The page stays cached.
func (p *Pager) Flush(pageNum uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return storage.ErrClosed
	}
	return p.flushLocked(pageNum)
}

func (p *Pager) flushLocked(pageNum uint32) error {
	f, ok := p.frames[pageNum]
	if !ok {
		return fmt.Errorf("%w: page %d", storage.ErrPageNotCached, pageNum)
	}
	if err := p.file.WritePage(pageNum, f.page.Buf); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// FlushAll writes every resident page in ascending page order.
func (p *Pager) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return storage.ErrClosed
	}
	return p.flushAllLocked()
}

// flushAllLocked keeps going past a failed page and reports every failure.
func (p *Pager) flushAllLocked() error {
	var errs []error
	for _, pageNum := range slices.Sorted(maps.Keys(p.frames)) {
		if err := p.flushLocked(pageNum); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes every resident page, drops the cache and closes the file.
// The file is closed even when a flush fails. Closing twice is a no-op.
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	flushErr := p.flushAllLocked()
	resident := len(p.frames)
	clear(p.frames)
	if p.repl != nil {
		for i := range p.slots {
			p.repl.Remove(i)
		}
	}
	closeErr := p.file.Close()

	slog.Debug("pager.Close", "path", p.file.Path(), "flushed", resident, "numPages", p.numPages)
	return errors.Join(flushErr, closeErr)
}
