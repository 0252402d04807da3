// Package lazy implements an on-demand (lazy) DFA matcher (C6): instead of
// determinizing the whole NFA upfront, it builds and caches DFA states one
// byte-transition at a time, keyed by the canonical (sorted) NFA state set
// each DFA state represents (see state.go/cache.go). When the cache fills,
// it is cleared (at most MaxCacheClears times over the DFA's lifetime) so
// later attempts can rebuild states, and the attempt in progress is answered
// by a full, uncached NFA pass over its whole input.
//
// A DFA state encodes the pattern starting from one specific input offset,
// so unanchored search cannot be driven by a single DFA walk: MatchAnchored
// drives one DFA pass from a fixed start, and Match restarts a fresh
// anchored attempt at each successive offset on failure, exactly mirroring
// nfa.Simulator's MatchAnchored/Match pair (the DFA is the cached,
// determinized analogue of the same two operations).
package lazy

import (
	"github.com/kanzi-re/retn/nfa"
)

// DFA performs matching against a compiled NFA, determinizing states
// lazily as the search encounters them.
//
// Not safe for concurrent use; one DFA should serve one goroutine at a time.
type DFA struct {
	nfa    *nfa.NFA
	sim    *nfa.Simulator
	cache  *Cache
	config Config

	states  []*State
	startID StateID
}

// New constructs a lazy DFA over n.
func New(n *nfa.NFA, config Config) (*DFA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &DFA{
		nfa:    n,
		sim:    nfa.NewSimulator(n),
		cache:  NewCache(config.MaxStates),
		config: config,
	}
	if err := d.buildStartState(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DFA) buildStartState() error {
	closure := d.sim.Closure(d.nfa.Start())
	key := CanonicalKey(closure)
	state := NewState(StartState, key, d.sim.ContainsMatch(closure))

	inserted, _, err := d.cache.GetOrInsert(key, state)
	if err != nil {
		return err
	}
	d.registerState(inserted)
	d.startID = inserted.ID()
	return nil
}

func (d *DFA) registerState(s *State) {
	id := int(s.ID())
	for len(d.states) <= id {
		d.states = append(d.states, nil)
	}
	d.states[id] = s
}

func (d *DFA) getState(id StateID) *State {
	if id == DeadState || id == InvalidState {
		return nil
	}
	idx := int(id)
	if idx >= len(d.states) {
		return nil
	}
	return d.states[idx]
}

// determinize computes the DFA transition from current on byte b, creating
// and caching a new state if one does not already exist for the resulting
// NFA state set.
//
// Returns (nil, nil) for a dead transition (no match possible from here).
// Returns (nil, error) if the cache was cleared mid-determinize, the cache
// is full and the clear budget is exhausted, or the determinization limit
// is exceeded — any of which the caller must treat as "the DFA walk can no
// longer continue from here" and answer the whole query via a full NFA
// pass from the original input instead.
func (d *DFA) determinize(current *State, b byte) (*State, error) {
	next := d.sim.Step(current.NFAStates(), b)

	if len(next) == 0 {
		current.AddTransition(b, DeadState)
		return nil, nil
	}

	if len(next) > d.config.DeterminizationLimit {
		return nil, &DFAError{
			Kind:    StateLimitExceeded,
			Message: "determinization limit exceeded",
		}
	}

	key := CanonicalKey(next)
	if existing, ok := d.cache.Get(key); ok {
		current.AddTransition(b, existing.ID())
		return existing, nil
	}

	newState := NewState(InvalidState, next, d.sim.ContainsMatch(next))
	if _, err := d.cache.Insert(key, newState); err != nil {
		if clearErr := d.tryClearCache(); clearErr != nil {
			return nil, clearErr
		}
		return nil, errCacheCleared
	}

	d.registerState(newState)
	current.AddTransition(b, newState.ID())
	return newState, nil
}

// tryClearCache clears the cache and rebuilds the start state, returning
// ErrCacheFull once the configured clear budget is exhausted.
func (d *DFA) tryClearCache() error {
	if d.cache.ClearCount() >= d.config.MaxCacheClears {
		return ErrCacheFull
	}
	d.cache.ClearKeepMemory()
	d.states = d.states[:0]
	return d.buildStartState()
}

// MatchAnchored reports whether the DFA matches some prefix of input when
// matching begins at input[0]. Mirrors nfa.Simulator.MatchAnchored, using
// the cache to avoid recomputing epsilon-closures already seen.
//
// Any determinization failure — cache cleared, cache exhausted, or the
// determinization limit hit — aborts the DFA walk and re-derives the
// answer with d.sim.MatchAnchored, always over the full input from
// position 0, never input[pos:]. Restarting mid-stream from a freshly
// rebuilt start state would silently discard everything already consumed
// and misreport a match relative to the wrong offset; falling back to a
// full, uncached NFA pass from the true origin is the only way to stay
// correct once the cache can no longer be trusted.
func (d *DFA) MatchAnchored(input []byte) bool {
	current := d.getState(d.startID)
	if current == nil {
		return d.sim.MatchAnchored(input)
	}
	if current.IsMatch() {
		return true
	}

	for pos := 0; pos < len(input); {
		b := input[pos]
		nextID, ok := current.Transition(b)
		switch {
		case !ok:
			nextState, err := d.determinize(current, b)
			if err != nil {
				return d.sim.MatchAnchored(input)
			}
			if nextState == nil {
				return false
			}
			current = nextState
		case nextID == DeadState:
			return false
		default:
			current = d.getState(nextID)
			if current == nil {
				return d.sim.MatchAnchored(input)
			}
		}
		pos++
		if current.IsMatch() {
			return true
		}
	}

	return false
}

// Match reports whether the DFA matches anywhere in input: it restarts a
// fresh anchored attempt at every offset until one succeeds or all have
// been tried, mirroring nfa.Simulator.Match. This is the correct, if not
// maximally optimized, unanchored strategy: a cached DFA state encodes the
// pattern relative to one fixed start offset, so it cannot be reused
// across different start offsets directly.
func (d *DFA) Match(input []byte) bool {
	for start := 0; start <= len(input); start++ {
		if d.MatchAnchored(input[start:]) {
			return true
		}
	}
	return false
}

// FindAnchored returns the end offset of the leftmost match when matching
// begins at input[0], or -1 if none exists.
//
// As in MatchAnchored, any determinization failure aborts the DFA walk in
// favor of nfaFallbackFind over the full input from position 0 — never a
// reset-and-continue from the current pos, which would discard the match
// state built from input[0:pos] and misreport offsets relative to the
// wrong origin.
func (d *DFA) FindAnchored(input []byte) int {
	current := d.getState(d.startID)
	if current == nil {
		return d.nfaFallbackFind(input)
	}

	lastMatch := -1
	if current.IsMatch() {
		lastMatch = 0
	}

	for pos := 0; pos < len(input); {
		b := input[pos]
		nextID, ok := current.Transition(b)
		switch {
		case !ok:
			nextState, err := d.determinize(current, b)
			if err != nil {
				return d.nfaFallbackFind(input)
			}
			if nextState == nil {
				return lastMatch
			}
			current = nextState
		case nextID == DeadState:
			return lastMatch
		default:
			current = d.getState(nextID)
			if current == nil {
				return d.nfaFallbackFind(input)
			}
		}
		pos++
		if current.IsMatch() {
			lastMatch = pos
		}
	}

	return lastMatch
}

// Find returns the (start, end) span of the leftmost match anywhere in
// input, or (-1, -1) if none exists. It restarts a fresh anchored attempt
// at each offset, keeping the first offset that yields a match.
func (d *DFA) Find(input []byte) (start, end int) {
	for s := 0; s <= len(input); s++ {
		if e := d.FindAnchored(input[s:]); e >= 0 {
			return s, s + e
		}
	}
	return -1, -1
}

// nfaFallbackFind re-runs an anchored search using the uncached Simulator
// directly. This is the DFA's correctness backstop: the Simulator has no
// state cache to exhaust, so it always terminates, at the cost of giving up
// the DFA's amortized per-byte speed for the remainder of this attempt.
func (d *DFA) nfaFallbackFind(input []byte) int {
	cl := d.sim.Closure(d.nfa.Start())
	lastMatch := -1
	if d.sim.ContainsMatch(cl) {
		lastMatch = 0
	}

	for pos := 0; pos < len(input); pos++ {
		cl = d.sim.Step(cl, input[pos])
		if len(cl) == 0 {
			return lastMatch
		}
		if d.sim.ContainsMatch(cl) {
			lastMatch = pos + 1
		}
	}
	return lastMatch
}

// CacheStats returns the underlying cache's size, capacity, and hit/miss
// statistics, useful for diagnostics and tuning Config.
func (d *DFA) CacheStats() (size int, capacity uint32, hits, misses uint64, hitRate float64) {
	size = d.cache.Size()
	capacity = d.config.MaxStates
	hits, misses, hitRate = d.cache.Stats()
	return
}

// ResetCache clears the cache and rebuilds the start state, forcing every
// subsequent search to redo determinization from scratch.
func (d *DFA) ResetCache() error {
	d.cache.Clear()
	d.states = d.states[:0]
	return d.buildStartState()
}
