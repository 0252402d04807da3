// Package retn implements a Thompson-construction regex engine: a
// hand-written recursive-descent parser feeds two independent lowering
// pipelines — a direct NFA build paired with a parallel state-set simulator
// and an on-demand lazy DFA (packages nfa and dfa/lazy), and an AST-to-
// bytecode compile paired with Pike's thread-list VM for submatch capture
// (package vm). Compile picks and wires together whichever pipeline the
// supplied Config calls for.
package retn

import (
	"fmt"

	lazy "github.com/kanzi-re/retn/dfa/lazy"
	"github.com/kanzi-re/retn/nfa"
	"github.com/kanzi-re/retn/vm"
)

// Handle is a compiled pattern, ready to match input. A Handle built with
// UseDFA matches via the lazy DFA and exposes only the overall match span
// (group 0); otherwise it matches via the Thread VM and exposes every
// capture group. Not safe for concurrent use: Match overwrites the handle's
// last-match state, which Group then reads.
type Handle struct {
	pattern string
	config  Config

	prog   *vm.Program  // capture-mode pipeline; nil when UseDFA
	thread *vm.ThreadVM // reusable executor over prog; nil when UseDFA
	dfa    *lazy.DFA    // DFA-mode pipeline; nil unless UseDFA

	result   *vm.Result
	matched  bool
	dfaStart int
	dfaEnd   int
}

// Compile compiles pattern into a Handle under the given options.
//
// Example:
//
//	h, err := retn.Compile(`a(b|c)*d`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if h.Match([]byte("abccbcccd")) {
//	    start, end, _ := h.Group(1)
//	    fmt.Println(start, end)
//	}
func Compile(pattern string, opts ...CompileOption) (*Handle, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return CompileWithConfig(pattern, cfg)
}

// MustCompile compiles pattern and panics if it is invalid. Intended for
// patterns known to be valid at compile time, e.g. package-level variables.
func MustCompile(pattern string, opts ...CompileOption) *Handle {
	h, err := Compile(pattern, opts...)
	if err != nil {
		panic(fmt.Sprintf("retn: Compile(%q): %v", pattern, err))
	}
	return h
}

// CompileWithConfig compiles pattern using an already-assembled Config,
// bypassing the functional-options layer.
func CompileWithConfig(pattern string, cfg Config) (*Handle, error) {
	h := &Handle{pattern: pattern, config: cfg}

	if cfg.UseDFA {
		n, err := nfa.Compile(pattern)
		if err != nil {
			return nil, err
		}
		d, err := lazy.New(n, cfg.DFA)
		if err != nil {
			return nil, err
		}
		h.dfa = d
		return h, nil
	}

	prog, err := vm.Compile(pattern, cfg.AnchorHead)
	if err != nil {
		return nil, err
	}
	h.prog = prog
	h.thread = vm.NewThreadVM(prog)
	return h, nil
}

// Match reports whether input matches the compiled pattern, recording the
// match span and (in capture mode) every group for a subsequent Group call.
func (h *Handle) Match(input []byte) bool {
	if h.config.UseDFA {
		return h.matchDFA(input)
	}
	return h.matchVM(input)
}

func (h *Handle) matchVM(input []byte) bool {
	res, ok := h.thread.Run(input)
	if !ok {
		h.matched = false
		h.result = nil
		return false
	}

	start, end, _ := res.Group(0)
	if h.config.AnchorTail && end != len(input) {
		h.matched = false
		h.result = nil
		return false
	}

	h.result = res
	h.matched = true
	h.dfaStart, h.dfaEnd = start, end
	return true
}

func (h *Handle) matchDFA(input []byte) bool {
	var end int
	if h.config.AnchorHead {
		end = h.dfa.FindAnchored(input)
		if end < 0 {
			h.matched = false
			return false
		}
		if h.config.AnchorTail && end != len(input) {
			h.matched = false
			return false
		}
		h.dfaStart, h.dfaEnd = 0, end
		h.matched = true
		return true
	}

	start, e := h.dfa.Find(input)
	if start < 0 {
		h.matched = false
		return false
	}
	if h.config.AnchorTail && e != len(input) {
		h.matched = false
		return false
	}
	h.dfaStart, h.dfaEnd = start, e
	h.matched = true
	return true
}

// Group returns the (start, end) span of capture group k from the most
// recent Match call, or ok=false if that call found no match, if the group
// did not participate — or, in DFA mode, for any k other than 0 (the DFA pipeline carries no
// capture groups; only the overall match span is available).
func (h *Handle) Group(k int) (start, end int, ok bool) {
	if !h.matched {
		return 0, 0, false
	}
	if h.config.UseDFA {
		if k != 0 {
			return 0, 0, false
		}
		return h.dfaStart, h.dfaEnd, true
	}
	return h.result.Group(k)
}

// Free releases the handle's internal buffers. A freed Handle must not be
// used again. Matching reuses the handle's Thread VM / DFA scratch state
// across calls, so Free is only necessary when discarding a Handle before
// it would otherwise be garbage collected — most callers can skip it.
func (h *Handle) Free() {
	h.prog = nil
	h.thread = nil
	h.dfa = nil
	h.result = nil
}
