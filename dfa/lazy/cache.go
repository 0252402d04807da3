package lazy

import (
	"sync"
)

// treeNode is one node of the cache's binary search tree, keyed on
// compareStateSets(key, ...). This directly implements the spec's "DFA
// cache is a binary search tree keyed by lexicographic order of the sorted
// [state] list" rule — it replaces the hash-map-keyed cache of the teacher
// implementation with an explicit BST so lookup is a genuine comparator
// walk rather than a hash bucket probe.
type treeNode struct {
	key         StateKey
	state       *State
	left, right *treeNode
}

// Cache provides thread-safe storage for DFA states with bounded memory,
// backed by a binary search tree ordered by canonical NFA state set.
//
// Thread safety: All methods are safe for concurrent access via RWMutex.
//
// Memory management:
//   - States are never evicted individually (no LRU overhead)
//   - When cache is full, it is cleared entirely and the current attempt
//     is answered by the NFA
//   - After too many clears, the cache stays full and uncached transitions
//     fall back to the NFA
type Cache struct {
	mu sync.RWMutex

	root  *treeNode
	count uint32

	// maxStates is the capacity limit
	maxStates uint32

	// nextID is the next available state ID
	// Start at 1 (0 is reserved for StartState)
	nextID StateID

	// clearCount tracks how many times the cache has been cleared since it
	// was created or last reset by Clear or ResetClearCount. This is used to
	// detect pathological cache thrashing and stop clearing once the
	// configured limit is reached.
	clearCount int

	// Statistics for cache performance tuning
	hits   uint64
	misses uint64
}

// NewCache creates a new state cache with the given maximum capacity
func NewCache(maxStates uint32) *Cache {
	return &Cache{
		maxStates: maxStates,
		nextID:    StartState + 1, // StartState is 0, start from 1
	}
}

// find walks the tree for key, returning the matching node or nil.
func (c *Cache) find(key StateKey) *treeNode {
	n := c.root
	for n != nil {
		switch cmp := compareStateSets(key, n.key); {
		case cmp < 0:
			n = n.left
		case cmp > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// insert places (key, state) into the tree, assuming key is not already
// present. Plain unbalanced BST insertion — the spec calls wholesale
// eviction, not tree rebalancing, the mechanism for bounding cost.
func (c *Cache) insert(key StateKey, state *State) {
	node := &treeNode{key: key, state: state}
	if c.root == nil {
		c.root = node
		c.count++
		return
	}
	n := c.root
	for {
		switch cmp := compareStateSets(key, n.key); {
		case cmp < 0:
			if n.left == nil {
				n.left = node
				c.count++
				return
			}
			n = n.left
		default:
			if n.right == nil {
				n.right = node
				c.count++
				return
			}
			n = n.right
		}
	}
}

// Get retrieves a state by its canonical key.
// Returns (state, true) if found, (nil, false) if not in cache.
func (c *Cache) Get(key StateKey) (*State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n := c.find(key); n != nil {
		c.hits++
		return n.state, true
	}
	return nil, false
}

// Insert adds a new state to the cache and returns its assigned ID.
// Returns (stateID, nil) on success.
// Returns (InvalidState, ErrCacheFull) if cache is at capacity.
func (c *Cache) Insert(key StateKey, state *State) (StateID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n := c.find(key); n != nil {
		c.hits++
		return n.state.ID(), nil
	}

	if c.count >= c.maxStates {
		c.misses++
		return InvalidState, ErrCacheFull
	}

	if state.id == InvalidState {
		state.id = c.nextID
		c.nextID++
	}

	c.insert(key, state)
	c.misses++

	return state.ID(), nil
}

// GetOrInsert retrieves a state from cache or inserts it if not present.
// This is the primary method used during DFA construction.
//
// Returns:
//   - (state, true) if state was already in cache (cache hit)
//   - (state, false) if state was just inserted (cache miss)
//   - (nil, false) with ErrCacheFull if cache is full
func (c *Cache) GetOrInsert(key StateKey, state *State) (*State, bool, error) {
	if existing, ok := c.Get(key); ok {
		return existing, true, nil
	}

	stateID, err := c.Insert(key, state)
	if err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	n := c.find(key)
	c.mu.RUnlock()

	if n == nil || n.state.ID() != stateID {
		panic("cache state ID mismatch")
	}

	return n.state, false, nil
}

// Size returns the current number of states in the cache
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.count)
}

// IsFull returns true if the cache has reached its maximum capacity
func (c *Cache) IsFull() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count >= c.maxStates
}

// Stats returns cache hit/miss statistics.
// Returns (hits, misses, hitRate).
func (c *Cache) Stats() (hits, misses uint64, hitRate float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits = c.hits
	misses = c.misses
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return hits, misses, hitRate
}

// ResetStats resets hit/miss counters (useful for benchmarking)
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// Clear removes all states from the cache and resets statistics.
// This also resets the clear counter. Primarily for testing.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.root = nil
	c.count = 0
	c.nextID = StartState + 1
	c.clearCount = 0
	c.hits = 0
	c.misses = 0
}

// ClearKeepMemory clears all states from the cache (dropping the tree root)
// and increments the clear counter. This is used during search when the
// cache is full: the cache is emptied so that later searches rebuild
// states on demand, while the search in progress falls back to the NFA.
// Wholesale eviction trades locality for a simple, uniformly linear-time
// guarantee — a real least-recently-used scheme would keep more of the
// working set warm, but at the cost of per-access bookkeeping this design
// deliberately avoids.
//
// Unlike Clear(), this method does NOT reset hit/miss statistics — they
// accumulate across clears for diagnosability.
//
// After calling this, all previously returned *State pointers are stale
// and must not be used. The caller must re-obtain the start state.
func (c *Cache) ClearKeepMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.root = nil
	c.count = 0
	c.nextID = StartState + 1
	c.clearCount++
}

// ClearCount returns how many times the cache has been cleared.
// Used to check against the MaxCacheClears limit.
func (c *Cache) ClearCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clearCount
}

// ResetClearCount resets the clear counter to zero, restoring the full
// clear budget. The DFA's search methods do not call it.
func (c *Cache) ResetClearCount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearCount = 0
}
