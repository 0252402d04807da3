package retn

import "testing"

func TestCompileAndMatchDefault(t *testing.T) {
	h, err := Compile(`a(b|c)*d`)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !h.Match([]byte("abccbcccd")) {
		t.Fatal("expected match")
	}
	start, end, ok := h.Group(0)
	if !ok || start != 0 || end != 9 {
		t.Errorf("group 0 = (%d, %d, %v), want (0, 9, true)", start, end, ok)
	}

	if h.Match([]byte("xyz")) {
		t.Error("expected no match on unrelated input")
	}
}

func TestCompileCaptureGroups(t *testing.T) {
	h, err := Compile(`(a+)(b+)`)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !h.Match([]byte("aaabbb")) {
		t.Fatal("expected match")
	}
	s1, e1, ok1 := h.Group(1)
	if !ok1 || s1 != 0 || e1 != 3 {
		t.Errorf("group 1 = (%d, %d, %v), want (0, 3, true)", s1, e1, ok1)
	}
	s2, e2, ok2 := h.Group(2)
	if !ok2 || s2 != 3 || e2 != 6 {
		t.Errorf("group 2 = (%d, %d, %v), want (3, 6, true)", s2, e2, ok2)
	}
}

func TestMustCompilePanicsOnInvalidPattern(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for invalid pattern")
		}
	}()
	MustCompile(`(`)
}

func TestCompileErrorOnInvalidPattern(t *testing.T) {
	_, err := Compile(`(a`)
	if err == nil {
		t.Fatal("expected error for unbalanced group")
	}
}

func TestCompileWithConfigDFAMode(t *testing.T) {
	h, err := Compile(`a(b|c)*d`, UseDFA())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !h.Match([]byte("abccbcccd")) {
		t.Fatal("expected match")
	}
	start, end, ok := h.Group(0)
	if !ok || start != 0 || end != 9 {
		t.Errorf("group 0 = (%d, %d, %v), want (0, 9, true)", start, end, ok)
	}
	// DFA mode carries no per-group captures.
	if _, _, ok := h.Group(1); ok {
		t.Error("expected group 1 to report ok=false under DFA mode")
	}
}

func TestBoundMemImpliesDFA(t *testing.T) {
	h, err := Compile(`(a|b)*c`, BoundMem(4))
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !h.config.UseDFA {
		t.Error("BoundMem should imply UseDFA")
	}
	if h.config.DFA.MaxStates != 4 {
		t.Errorf("MaxStates = %d, want 4", h.config.DFA.MaxStates)
	}
	if !h.Match([]byte("aabbc")) {
		t.Error("expected match")
	}
}

// TestEmptyAlternativeAnchoring exercises spec.md's scenario 6: pattern `a|`
// matches the empty string at (0,0) when unanchored, but ANCHOR_HEAD combined
// with ANCHOR_TAIL rejects any input longer than the empty match.
func TestEmptyAlternativeAnchoring(t *testing.T) {
	for _, useDFA := range []bool{false, true} {
		var opts []CompileOption
		if useDFA {
			opts = append(opts, UseDFA())
		}

		h, err := Compile(`a|`, opts...)
		if err != nil {
			t.Fatalf("Compile error = %v", err)
		}
		if !h.Match([]byte("xyz")) {
			t.Fatalf("useDFA=%v: expected unanchored match at (0,0)", useDFA)
		}
		start, end, ok := h.Group(0)
		if !ok || start != 0 || end != 0 {
			t.Errorf("useDFA=%v: group 0 = (%d, %d, %v), want (0, 0, true)", useDFA, start, end, ok)
		}

		anchored := append(append([]CompileOption{}, opts...), AnchorHead(), AnchorTail())
		ha, err := Compile(`a|`, anchored...)
		if err != nil {
			t.Fatalf("Compile error = %v", err)
		}
		if ha.Match([]byte("xyz")) {
			t.Errorf("useDFA=%v: expected no match under ANCHOR_HEAD+ANCHOR_TAIL on non-empty input", useDFA)
		}
		if !ha.Match([]byte("")) {
			t.Errorf("useDFA=%v: expected match on empty input under ANCHOR_HEAD+ANCHOR_TAIL", useDFA)
		}
	}
}

func TestAnchorHeadRejectsLaterMatch(t *testing.T) {
	h, err := Compile(`bc`, AnchorHead())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if h.Match([]byte("abc")) {
		t.Error("expected no match: ANCHOR_HEAD requires match at input[0]")
	}
	if !h.Match([]byte("bcx")) {
		t.Error("expected match at input[0]")
	}
}

func TestAnchorTailRejectsPartialMatch(t *testing.T) {
	h, err := Compile(`ab`, AnchorTail())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if h.Match([]byte("abc")) {
		t.Error("expected no match: ANCHOR_TAIL requires consuming all input")
	}
	if !h.Match([]byte("ab")) {
		t.Error("expected match when input is fully consumed")
	}
}

func TestGroupBeforeMatchIsNotOK(t *testing.T) {
	h, err := Compile(`abc`)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if _, _, ok := h.Group(0); ok {
		t.Error("expected ok=false before any Match call")
	}
}

func TestFreeClearsHandleState(t *testing.T) {
	h, err := Compile(`abc`)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !h.Match([]byte("abc")) {
		t.Fatal("expected match")
	}
	h.Free()
	if h.prog != nil || h.thread != nil || h.dfa != nil || h.result != nil {
		t.Error("expected Free to clear all internal pipeline state")
	}
}
