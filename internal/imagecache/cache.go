package imagecache

import (
	"sync"

	"github.com/ytget/app-organizer/internal/model"
)

// Entry is a cache slot: either decoded pixels or a render handle owned by
// the UI. A fetching slot carries neither.
type Entry[H any] struct {
	State  model.IconState
	Pixels Pixels // set when State is Decoded
	Handle H      // set when State is Ready
}

// Stats counts cache slots by state
type Stats struct {
	Fetching int
	Decoded  int
	Ready    int
}

// Total returns the number of slots holding a value
func (s Stats) Total() int {
	return s.Decoded + s.Ready
}

// Cache maps app identifiers to icon entries. H is the UI's render handle type.
type Cache[H any] struct {
	entries map[string]*Entry[H]
	mu      sync.RWMutex
}

// New creates an empty cache
func New[H any]() *Cache[H] {
	return &Cache[H]{
		entries: make(map[string]*Entry[H]),
	}
}

// Get returns a copy of the entry for id. Missing ids and in-flight
// reservations report false.
func (c *Cache[H]) Get(id string) (Entry[H], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[id]
	if !exists || !entry.State.HasValue() {
		return Entry[H]{State: c.stateLocked(id)}, false
	}
	return *entry, true
}

// State returns the pipeline state of id
func (c *Cache[H]) State(id string) model.IconState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked(id)
}

func (c *Cache[H]) stateLocked(id string) model.IconState {
	if entry, exists := c.entries[id]; exists {
		return entry.State
	}
	return model.IconStateMissing
}

// Reserve marks id as being fetched. It fails when anything, including
// another reservation, already occupies the slot.
func (c *Cache[H]) Reserve(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; exists {
		return false
	}
	c.entries[id] = &Entry[H]{State: model.IconStateFetching}
	return true
}

// Release drops a fetching reservation so the id can be fetched again.
// Slots holding a value are left alone.
func (c *Cache[H]) Release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[id]; exists && entry.State == model.IconStateFetching {
		delete(c.entries, id)
	}
}

// InsertIfAbsent stores decoded pixels unless a value is already cached.
// A fetching reservation counts as absent and is replaced.
func (c *Cache[H]) InsertIfAbsent(id string, pixels Pixels) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[id]; exists && entry.State.HasValue() {
		return false
	}
	c.entries[id] = &Entry[H]{State: model.IconStateDecoded, Pixels: pixels}
	return true
}

// Promote replaces cached pixels with a render handle. It is a no-op unless
// the slot currently holds pixels, so a handle never reverts and no entry
// is ever fabricated.
func (c *Cache[H]) Promote(id string, handle H) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	if !exists || entry.State != model.IconStateDecoded {
		return false
	}
	c.entries[id] = &Entry[H]{State: model.IconStateReady, Handle: handle}
	return true
}

// Len returns the number of slots holding a value
func (c *Cache[H]) Len() int {
	return c.Stats().Total()
}

// Stats returns slot counts by state
func (c *Cache[H]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Stats
	for _, entry := range c.entries {
		switch entry.State {
		case model.IconStateFetching:
			s.Fetching++
		case model.IconStateDecoded:
			s.Decoded++
		case model.IconStateReady:
			s.Ready++
		}
	}
	return s
}

// Reset drops every slot
func (c *Cache[H]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry[H])
}
