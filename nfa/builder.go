package nfa

import (
	"fmt"

	"github.com/kanzi-re/retn/internal/conv"
)

// Builder constructs NFAs incrementally using a low-level arena API.
//
// It replaces the original source's raw State*/StatePtrList graph (see
// SPEC_FULL.md's arena redesign note) with a dense, indexable []State slice:
// every out-edge is a StateID into that same slice, so there is no
// dangling-pointer hazard and nothing to free independently of the arena.
type Builder struct {
	states []State
	start  StateID
}

// NewBuilder creates a new NFA builder with default capacity.
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity.
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

// AddMatch adds a match (accepting) state and returns its ID.
func (b *Builder) AddMatch() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{id: id, kind: StateMatch})
	return id
}

// AddByteRange adds a state that consumes one byte in [lo, hi] and
// transitions to next. For a single literal byte, pass lo == hi. For ANY,
// pass (0x00, 0xFF).
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{id: id, kind: StateByteRange, lo: lo, hi: hi, next: next})
	return id
}

// AddSplit adds a state with epsilon transitions to two states — the core
// of Thompson's construction for alternation and the repetition operators.
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{id: id, kind: StateSplit, left: left, right: right})
	return id
}

// Patch rewrites a ByteRange state's `next` target. Used to back-patch a
// Fragment's dangling out edge once the following fragment's start is known.
func (b *Builder) Patch(id, target StateID) error {
	s, err := b.at(id)
	if err != nil {
		return err
	}
	if s.kind != StateByteRange {
		return &BuildError{Message: fmt.Sprintf("cannot patch next on state of kind %s", s.kind), StateID: id}
	}
	s.next = target
	return nil
}

// PatchSplit updates both the left and right targets of a Split state.
func (b *Builder) PatchSplit(id StateID, left, right StateID) error {
	s, err := b.splitAt(id)
	if err != nil {
		return err
	}
	s.left = left
	s.right = right
	return nil
}

// PatchSplitLeft rewrites a Split state's left branch only.
func (b *Builder) PatchSplitLeft(id, target StateID) error {
	s, err := b.splitAt(id)
	if err != nil {
		return err
	}
	s.left = target
	return nil
}

// PatchSplitRight rewrites a Split state's right branch only.
func (b *Builder) PatchSplitRight(id, target StateID) error {
	s, err := b.splitAt(id)
	if err != nil {
		return err
	}
	s.right = target
	return nil
}

func (b *Builder) at(id StateID) (*State, error) {
	if int(id) >= len(b.states) {
		return nil, &BuildError{Message: "state ID out of bounds", StateID: id}
	}
	return &b.states[id], nil
}

func (b *Builder) splitAt(id StateID) (*State, error) {
	s, err := b.at(id)
	if err != nil {
		return nil, err
	}
	if s.kind != StateSplit {
		return nil, &BuildError{Message: fmt.Sprintf("expected Split state, got %s", s.kind), StateID: id}
	}
	return s, nil
}

// SetStart records the NFA's single entry state. Unanchored search is
// driven externally by restarting closure(start) at successive offsets
// (see package nfa's Simulator and dfa/lazy), so a single start state
// suffices for both anchored and unanchored matching.
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states.
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed: the start state is set and
// in range, and every out-pointer refers to a state within the same arena.
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set"}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}

	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateByteRange:
			if int(s.next) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid next state %d", s.next), StateID: id}
			}
		case StateSplit:
			if int(s.left) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid left state %d", s.left), StateID: id}
			}
			if int(s.right) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid right state %d", s.right), StateID: id}
			}
		}
	}
	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &NFA{states: b.states, start: b.start}, nil
}

// slot identifies which out-edge of a state a patch targets.
type slot uint8

const (
	slotNext slot = iota
	slotLeft
	slotRight
)

// patch identifies one unresolved out-edge: a ByteRange's single next edge,
// or a Split's left/right branch.
type patch struct {
	state StateID
	slot  slot
}

// Fragment is an in-construction NFA piece: an entry state plus a list of
// dangling out-pointers that must later be patched to the next fragment's
// entry. Fragments are scratch values used only during Thompson construction
// and are discarded once the pattern's top-level fragment is patched to the
// shared MATCH state.
//
// This is the arena-friendly replacement for the original source's
// Fragment{start, out PtrList} built from raw State** pointers.
type Fragment struct {
	Start StateID
	out   []patch
}

// NewFragment wraps a single ByteRange state with its one dangling `next`
// out-edge — the shape produced by a literal byte or ANY.
func NewFragment(start StateID) Fragment {
	return Fragment{Start: start, out: []patch{{state: start, slot: slotNext}}}
}

// Dangling reports how many unresolved out-edges remain in the fragment.
func (f Fragment) Dangling() int {
	return len(f.out)
}

// PatchTo back-patches every dangling out edge in f to target.
func (b *Builder) PatchTo(f Fragment, target StateID) error {
	for _, p := range f.out {
		var err error
		switch p.slot {
		case slotNext:
			err = b.Patch(p.state, target)
		case slotLeft:
			err = b.PatchSplitLeft(p.state, target)
		case slotRight:
			err = b.PatchSplitRight(p.state, target)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Append concatenates the dangling out-lists of f and g into a single
// fragment starting at f.Start, deferring the patch until both are
// resolvable as one unit. Used when chaining fragments that share a
// not-yet-known successor (e.g. both operands of an alternation).
func Append(f, g Fragment) Fragment {
	out := make([]patch, 0, len(f.out)+len(g.out))
	out = append(out, f.out...)
	out = append(out, g.out...)
	return Fragment{Start: f.Start, out: out}
}

// SplitOutRight builds the dangling-out fragment for a Split state whose
// left branch already points at a concrete state, leaving only the right
// branch dangling — the shape used by `?` and the exit edge of `*`/`+`.
func SplitOutRight(split StateID) Fragment {
	return Fragment{Start: split, out: []patch{{state: split, slot: slotRight}}}
}

// SplitOutLeft mirrors SplitOutRight for the left branch.
func SplitOutLeft(split StateID) Fragment {
	return Fragment{Start: split, out: []patch{{state: split, slot: slotLeft}}}
}

// SplitOutBoth builds the dangling-out fragment for a Split state whose
// both branches remain unresolved — the shape compileEmpty uses for the
// empty string, where both branches converge on whatever follows.
func SplitOutBoth(split StateID) Fragment {
	return Fragment{Start: split, out: []patch{{state: split, slot: slotLeft}, {state: split, slot: slotRight}}}
}
