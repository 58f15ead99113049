// Package dedupe provides idempotency tracking for event ingestion.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records source-qualified event IDs so ingestion accepts each
// event at most once per process lifetime.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an ID so it can be retried. Used when an event was
	// recorded but could not be enqueued (e.g. queue at capacity).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

type node struct {
	id   string
	next *node
}

func (n *node) reset() {
	n.id = ""
	n.next = nil
}

// inMemoryDeduper keeps seen IDs in a map. In bounded mode (maxSize > 0)
// insertion order is tracked in a linked list so the oldest entry can be
// evicted once the cap is reached; nodes are pooled. With maxSize <= 0
// the set grows without limit.
type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[string]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*node)
	if d.maxSize > 0 {
		d.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		n := d.nodePool.Get().(*node)
		n.id = id
		n.next = d.head
		d.head = n
		d.seen[id] = n
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)
	if d.maxSize <= 0 {
		return
	}

	if d.head == n {
		d.head = n.next
	} else {
		current := d.head
		for current != nil && current.next != n {
			current = current.next
		}
		if current != nil {
			current.next = n.next
		}
	}
	n.reset()
	d.nodePool.Put(n)
}

// evictOldest drops the tail of the list, the oldest recorded ID.
// Caller must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.head == nil {
		return
	}

	var prev *node
	current := d.head
	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev == nil {
		d.head = nil
	} else {
		prev.next = nil
	}
	delete(d.seen, current.id)
	current.reset()
	d.nodePool.Put(current)
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
