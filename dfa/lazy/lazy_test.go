package lazy

import (
	"testing"

	"github.com/kanzi-re/retn/nfa"
)

func mustCompile(t *testing.T, pattern string) *nfa.NFA {
	t.Helper()
	n, err := nfa.Compile(pattern)
	if err != nil {
		t.Fatalf("nfa.Compile(%q) error = %v", pattern, err)
	}
	return n
}

func TestDFAMatchAnchored(t *testing.T) {
	n := mustCompile(t, "a(b|c)*d")
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"ad", true},
		{"abccbcccd", true},
		{"abx", false},
		{"xad", false},
	}
	for _, tc := range tests {
		if got := d.MatchAnchored([]byte(tc.input)); got != tc.want {
			t.Errorf("MatchAnchored(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestDFAMatchUnanchored(t *testing.T) {
	n := mustCompile(t, "bc")
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !d.Match([]byte("abc")) {
		t.Error("Match(\"abc\") = false, want true")
	}
	if d.Match([]byte("xyz")) {
		t.Error("Match(\"xyz\") = true, want false")
	}
}

func TestDFAFindAnchored(t *testing.T) {
	n := mustCompile(t, "a.*b")
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if end := d.FindAnchored([]byte("axxxxbxxxb")); end != 10 {
		t.Errorf("FindAnchored greedy = %d, want 10", end)
	}
}

func TestDFAFindUnanchored(t *testing.T) {
	n := mustCompile(t, "cd")
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start, end := d.Find([]byte("abcdef"))
	if start != 2 || end != 4 {
		t.Errorf("Find() = (%d, %d), want (2, 4)", start, end)
	}
}

func TestDFANoMatch(t *testing.T) {
	n := mustCompile(t, "xyz")
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	start, end := d.Find([]byte("abcdef"))
	if start != -1 || end != -1 {
		t.Errorf("Find() = (%d, %d), want (-1, -1)", start, end)
	}
}

// TestDFAEquivalence checks that the lazy DFA agrees with the direct NFA
// Simulator on every input prefix of a moderately complex pattern — the
// two engines drive the same Closure/Step primitives, one cached and one
// not, and must never disagree.
func TestDFAEquivalence(t *testing.T) {
	pattern := "(a|b)*abb"
	n := mustCompile(t, pattern)
	d, err := New(n, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sim := nfa.NewSimulator(n)

	inputs := []string{"", "a", "abb", "aabb", "ababb", "bbbabb", "xyz", "aaaa"}
	for _, in := range inputs {
		want := sim.MatchAnchored([]byte(in))
		got := d.MatchAnchored([]byte(in))
		if got != want {
			t.Errorf("pattern %q input %q: DFA = %v, Simulator = %v", pattern, in, got, want)
		}
	}
}

// TestDFACacheClearForcesNFAFallback uses a plain literal chain ("abcdef")
// rather than a repetition pattern: a loop like (a|b)*c collapses every
// loop-back transition onto the same cached loop-head state (the start
// state IS the loop head here, since the star sits at the top level), so
// it only ever needs two live DFA states no matter how long the input is
// and never actually exceeds a cap of 2. A non-repeating literal chain
// instead visits a brand new, never-before-seen state after every byte, so
// a tiny cache is guaranteed to overflow and force a real clear partway
// through the match.
func TestDFACacheClearForcesNFAFallback(t *testing.T) {
	n := mustCompile(t, "abcdef")
	cfg := DefaultConfig().WithMaxStates(2).WithMaxCacheClears(10)
	d, err := New(n, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if !d.MatchAnchored([]byte("abcdef")) {
		t.Error("expected match despite a tiny cache forcing a clear mid-search")
	}
	if d.cache.ClearCount() == 0 {
		t.Fatal("expected at least one cache clear with MaxStates=2 over a 6-state chain")
	}
	if d.MatchAnchored([]byte("abcxef")) {
		t.Error("expected no match: fallback must still reject a non-matching input")
	}
}

func TestDFAInvalidConfig(t *testing.T) {
	n := mustCompile(t, "a")
	_, err := New(n, Config{})
	if err == nil {
		t.Fatal("expected error for zero-value config")
	}
}
