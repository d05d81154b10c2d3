package clockx

// Clock implements CLOCK (second-chance) replacement for a fixed number of slots.
// Slot IDs are [0..capacity). A slot is a candidate only while present and evictable.
type Clock struct {
	slots []slot
	hand  int
	size  int // number of evictable slots
}

type slot struct {
	present   bool
	evictable bool
	ref       bool
}

func New(capacity int) *Clock {
	if capacity <= 0 {
		capacity = 1
	}
	return &Clock{slots: make([]slot, capacity)}
}

func (c *Clock) Capacity() int { return len(c.slots) }

func (c *Clock) valid(id int) bool { return id >= 0 && id < len(c.slots) }

// Touch marks slot as recently accessed, registering it if needed.
func (c *Clock) Touch(id int) {
	if !c.valid(id) {
		return
	}
	c.slots[id].present = true
	c.slots[id].ref = true
}

// SetEvictable marks whether slot can be evicted (pin count is zero).
// Unknown slots are ignored.
func (c *Clock) SetEvictable(id int, evictable bool) {
	if !c.valid(id) {
		return
	}
	s := &c.slots[id]
	if !s.present || s.evictable == evictable {
		return
	}
	s.evictable = evictable
	if evictable {
		c.size++
	} else {
		c.size--
	}
}

// Evict returns a victim slot and forgets it.
func (c *Clock) Evict() (id int, ok bool) {
	n := len(c.slots)
	if c.size == 0 {
		return -1, false
	}

	// two sweeps: the first may only clear ref bits
	for range 2 * n {
		idx := c.hand
		c.hand = (c.hand + 1) % n

		s := &c.slots[idx]
		if !s.present || !s.evictable {
			continue
		}
		if s.ref {
			s.ref = false
			continue
		}
		*s = slot{}
		c.size--
		return idx, true
	}
	return -1, false
}

// Remove forgets slot without choosing it as a victim.
func (c *Clock) Remove(id int) {
	if !c.valid(id) || !c.slots[id].present {
		return
	}
	if c.slots[id].evictable {
		c.size--
	}
	c.slots[id] = slot{}
}

// Size returns the number of evictable slots.
func (c *Clock) Size() int { return c.size }
