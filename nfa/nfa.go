package nfa

import (
	"fmt"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// Special state constants
const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF
)

// StateKind identifies the type of NFA state and determines which transitions are valid.
//
// There are exactly three kinds, matching the data model: a MATCH sink, a
// byte-consuming ByteRange (literal and ANY are both ranges — ANY is simply
// [0x00-0xFF]), and a SPLIT epsilon-branch used for alternation and the three
// repetition operators.
type StateKind uint8

const (
	// StateMatch represents a match state (accepting sink). Has no outbound edges.
	StateMatch StateKind = iota

	// StateByteRange consumes one input byte in [lo, hi] and transitions to next.
	// A literal `c` is represented as lo == hi == c. `.` (ANY) is lo=0x00, hi=0xFF.
	StateByteRange

	// StateSplit is an epsilon-branch to two successors (left, right), used to
	// encode alternation and the `*`, `+`, `?` operators. SPLIT states are
	// collapsed during epsilon-closure and never appear in an active state list.
	StateSplit
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateByteRange:
		return "ByteRange"
	case StateSplit:
		return "Split"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State represents a single NFA state with its transitions.
// The state's kind determines which fields are valid.
type State struct {
	id   StateID
	kind StateKind

	// For ByteRange: byte range [lo, hi] and the target state.
	lo, hi byte
	next   StateID

	// For Split: epsilon transitions to two states.
	left, right StateID
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// ByteRange returns the byte range for ByteRange states.
// Returns (0, 0, InvalidState) for non-ByteRange states.
func (s *State) ByteRange() (lo, hi byte, next StateID) {
	if s.kind == StateByteRange {
		return s.lo, s.hi, s.next
	}
	return 0, 0, InvalidState
}

// Split returns the two target states for Split states.
// Returns (InvalidState, InvalidState) for non-Split states.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match)", s.id)
	case StateByteRange:
		if s.lo == s.hi {
			return fmt.Sprintf("State(%d, ByteRange '%c' -> %d)", s.id, s.lo, s.next)
		}
		return fmt.Sprintf("State(%d, ByteRange [0x%02x-0x%02x] -> %d)", s.id, s.lo, s.hi, s.next)
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA represents a compiled Thompson NFA over a dense state arena.
//
// All out-pointers are StateIDs into the same arena (see the Builder's arena
// redesign in SPEC_FULL.md, replacing the raw-pointer graph of the original
// source with an indexable, leak-free representation).
type NFA struct {
	// states contains all NFA states indexed by StateID
	states []State

	// start is the single entry state produced by the NFA Builder (C2).
	// Unanchored search is driven externally by restarting closure(start)
	// at successive input offsets (see Simulator.Match); the arena itself
	// carries no separate unanchored-prefix state.
	start StateID
}

// Start returns the starting state ID of the NFA.
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsMatch returns true if the given state is a match state
func (n *NFA) IsMatch(id StateID) bool {
	if s := n.State(id); s != nil {
		return s.IsMatch()
	}
	return false
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d}", len(n.states), n.start)
}
