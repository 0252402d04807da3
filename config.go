package retn

import (
	lazy "github.com/kanzi-re/retn/dfa/lazy"
)

// Config controls how a pattern is compiled and matched (C7's compile-time
// options). The zero Config matches spec.md's stated default: unanchored
// NFA-backed matching with capture support and no DFA cache bound.
type Config struct {
	// AnchorHead requires a match to begin at input[0] (spec's ANCHOR_HEAD).
	// When false, the Thread VM's program gets an implicit leading
	// non-greedy `.*` so it searches every starting offset in a single
	// pass; the lazy DFA instead restarts an anchored attempt at each offset.
	AnchorHead bool

	// AnchorTail requires a match to consume the entire input (spec's
	// ANCHOR_TAIL): the recorded match's end slot must equal len(input).
	AnchorTail bool

	// UseDFA selects the lazy DFA engine (spec's DFA flag) for Match. DFA
	// mode trades capture groups for throughput: Group always reports "not
	// participated" except group 0, which holds the overall match span.
	UseDFA bool

	// DFA configures the lazy DFA's cache when UseDFA is set (spec's
	// BOUND_MEM bullet: DFA.MaxStates caps cache growth).
	DFA lazy.Config
}

// DefaultConfig returns spec.md's stated default configuration: unanchored,
// capture-enabled NFA matching via the Thread VM, DFA disabled.
func DefaultConfig() Config {
	return Config{DFA: lazy.DefaultConfig()}
}

// CompileOption adjusts a Config before compilation — the functional-options
// idiom standing in for the spec's compile-time bit flags.
type CompileOption func(*Config)

// AnchorHead sets Config.AnchorHead.
func AnchorHead() CompileOption {
	return func(c *Config) { c.AnchorHead = true }
}

// AnchorTail sets Config.AnchorTail.
func AnchorTail() CompileOption {
	return func(c *Config) { c.AnchorTail = true }
}

// UseDFA sets Config.UseDFA.
func UseDFA() CompileOption {
	return func(c *Config) { c.UseDFA = true }
}

// BoundMem caps the lazy DFA's state cache at maxStates (spec's BOUND_MEM),
// implying UseDFA.
func BoundMem(maxStates uint32) CompileOption {
	return func(c *Config) {
		c.UseDFA = true
		c.DFA.MaxStates = maxStates
	}
}
