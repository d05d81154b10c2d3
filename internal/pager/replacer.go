package pager

import "github.com/tuannm99/leafdb/pkg/clockx"

// Replacer chooses which cache slot to reuse when a bounded cache is full.
type Replacer interface {
	RecordAccess(slot int)
	SetEvictable(slot int, evictable bool)
	Evict() (slot int, ok bool)
	Remove(slot int)
	Size() int
}

type clockAdapter struct {
	c *clockx.Clock
}

func newClockAdapter(capacity int) Replacer {
	return &clockAdapter{c: clockx.New(capacity)}
}

func (a *clockAdapter) RecordAccess(slot int)         { a.c.Touch(slot) }
func (a *clockAdapter) SetEvictable(slot int, e bool) { a.c.SetEvictable(slot, e) }
func (a *clockAdapter) Evict() (int, bool)            { return a.c.Evict() }
func (a *clockAdapter) Remove(slot int)               { a.c.Remove(slot) }
func (a *clockAdapter) Size() int                     { return a.c.Size() }
