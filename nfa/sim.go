package nfa

// Simulator advances sets of active NFA states one input byte at a time —
// the NFA Simulator (C4). It holds reusable scratch buffers so repeated
// Closure/Step calls (as performed by the lazy DFA's determinization loop
// in package dfa/lazy) do not reallocate per call.
//
// A Simulator is not safe for concurrent use; callers matching the same
// compiled NFA from multiple goroutines must use one Simulator per
// goroutine (mirroring the Compiled Pattern's single-owner contract).
type Simulator struct {
	nfa *NFA

	// gen holds, per state, the generation tag of the closure/step pass
	// that most recently added it — the `lastlist`/`listid` trick: set
	// membership is an O(1) tag comparison instead of a full scan.
	gen []uint64

	// curGen is the generation counter; it is distinct for every
	// Closure/Step call, ensuring each pass starts with an empty set.
	curGen uint64
}

// NewSimulator creates a Simulator over the given compiled NFA.
func NewSimulator(n *NFA) *Simulator {
	return &Simulator{
		nfa: n,
		gen: make([]uint64, n.States()),
	}
}

// NFA returns the underlying automaton.
func (s *Simulator) NFA() *NFA {
	return s.nfa
}

func (s *Simulator) nextGen() uint64 {
	s.curGen++
	return s.curGen
}

// Closure computes the epsilon-closure of a single start state: every
// non-SPLIT state reachable from start through SPLIT edges, each appearing
// at most once. SPLIT states themselves are collapsed and never appear in
// the result, per the closure-stable invariant.
func (s *Simulator) Closure(start StateID) []StateID {
	gen := s.nextGen()
	var list []StateID
	s.addState(&list, gen, start)
	return list
}

// addState implements the recursive epsilon-closure walk: SPLIT states
// recurse into both branches (left before right, the same priority order
// the Thread VM's own addThread uses); any other state kind is appended
// directly.
func (s *Simulator) addState(list *[]StateID, gen uint64, id StateID) {
	if id == InvalidState || s.gen[id] == gen {
		return
	}
	s.gen[id] = gen

	st := s.nfa.State(id)
	if st.Kind() == StateSplit {
		left, right := st.Split()
		s.addState(list, gen, left)
		s.addState(list, gen, right)
		return
	}
	*list = append(*list, id)
}

// Step advances the state list cl by one input byte b: every ByteRange
// state in cl whose range contains b contributes the epsilon-closure of
// its successor to the result. cl must not contain SPLIT states (the
// closure-stable invariant guarantees this for any cl produced by Closure
// or a prior Step).
func (s *Simulator) Step(cl []StateID, b byte) []StateID {
	gen := s.nextGen()
	var nl []StateID
	for _, id := range cl {
		st := s.nfa.State(id)
		if st.Kind() != StateByteRange {
			continue
		}
		lo, hi, next := st.ByteRange()
		if b >= lo && b <= hi {
			s.addState(&nl, gen, next)
		}
	}
	return nl
}

// ContainsMatch reports whether list contains the MATCH state.
func (s *Simulator) ContainsMatch(list []StateID) bool {
	for _, id := range list {
		if s.nfa.IsMatch(id) {
			return true
		}
	}
	return false
}

// MatchAnchored reports whether the NFA matches some prefix of input when
// matching begins at input[0]. It does not require the match to consume
// all of input: MATCH need only appear in the active set at some point,
// mirroring the spec's "report true on the first step at which MATCH
// appears" rule.
func (s *Simulator) MatchAnchored(input []byte) bool {
	cl := s.Closure(s.nfa.Start())
	if s.ContainsMatch(cl) {
		return true
	}
	for _, b := range input {
		cl = s.Step(cl, b)
		if len(cl) == 0 {
			return false
		}
		if s.ContainsMatch(cl) {
			return true
		}
	}
	return false
}

// Match reports whether the NFA matches anywhere in input: it restarts an
// anchored attempt at every offset until one succeeds or all have been
// tried. This is the Simulator's own reference-quality unanchored search;
// the lazy DFA (package dfa/lazy) drives the same Closure/Step primitives
// with caching for the efficient unanchored path.
func (s *Simulator) Match(input []byte) bool {
	for start := 0; start <= len(input); start++ {
		if s.MatchAnchored(input[start:]) {
			return true
		}
	}
	return false
}
