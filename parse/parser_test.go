package parse

import (
	"errors"
	"testing"
)

func TestParseLiteralAndConcat(t *testing.T) {
	n, groups, err := Parse("ab")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if groups != 0 {
		t.Fatalf("groups = %d, want 0", groups)
	}
	if n.Kind != NodeConcat {
		t.Fatalf("Kind = %v, want Concat", n.Kind)
	}
	if n.Sub[0].Kind != NodeChar || n.Sub[0].Ch != 'a' {
		t.Errorf("left = %v, want Char(a)", n.Sub[0])
	}
	if n.Sub[1].Kind != NodeChar || n.Sub[1].Ch != 'b' {
		t.Errorf("right = %v, want Char(b)", n.Sub[1])
	}
}

func TestParseEmptyPattern(t *testing.T) {
	n, _, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.Kind != NodeEmpty {
		t.Errorf("Kind = %v, want Empty", n.Kind)
	}
}

func TestParseAlternation(t *testing.T) {
	n, _, err := Parse("a|b")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.Kind != NodeAlt {
		t.Fatalf("Kind = %v, want Alt", n.Kind)
	}
}

func TestParseEmptyAlternative(t *testing.T) {
	n, _, err := Parse("a|")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.Kind != NodeAlt {
		t.Fatalf("Kind = %v, want Alt", n.Kind)
	}
	if n.Sub[1].Kind != NodeEmpty {
		t.Errorf("right branch = %v, want Empty", n.Sub[1])
	}
}

func TestParseAny(t *testing.T) {
	n, _, err := Parse(".")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n.Kind != NodeAny {
		t.Errorf("Kind = %v, want Any", n.Kind)
	}
}

func TestParseRepetitionOperators(t *testing.T) {
	tests := []struct {
		pattern string
		kind    NodeKind
		greedy  bool
	}{
		{"a*", NodeStar, true},
		{"a*?", NodeStar, false},
		{"a+", NodePlus, true},
		{"a+?", NodePlus, false},
		{"a?", NodeQuest, true},
		{"a??", NodeQuest, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			n, _, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.pattern, err)
			}
			if n.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", n.Kind, tt.kind)
			}
			if n.Greedy != tt.greedy {
				t.Errorf("Greedy = %v, want %v", n.Greedy, tt.greedy)
			}
		})
	}
}

func TestParseGroup(t *testing.T) {
	n, groups, err := Parse("(a)(b)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if groups != 2 {
		t.Fatalf("groups = %d, want 2", groups)
	}
	if n.Kind != NodeConcat {
		t.Fatalf("Kind = %v, want Concat", n.Kind)
	}
	left, right := n.Sub[0], n.Sub[1]
	if left.Kind != NodeParen || left.Group != 1 {
		t.Errorf("left = %v, want Paren(1, ...)", left)
	}
	if right.Kind != NodeParen || right.Group != 2 {
		t.Errorf("right = %v, want Paren(2, ...)", right)
	}
}

func TestParseComplexPattern(t *testing.T) {
	n, groups, err := Parse("a(b|c)*d")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if groups != 1 {
		t.Fatalf("groups = %d, want 1", groups)
	}
	if n.Kind != NodeConcat {
		t.Fatalf("Kind = %v, want Concat", n.Kind)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"(a", ErrUnbalancedParen},
		{"a)", ErrUnbalancedParen},
		{"*a", ErrRepeatNoTarget},
		{"(*a)", ErrRepeatNoTarget},
		{"|*", ErrRepeatNoTarget},
		{"a**", ErrRepeatNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, _, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.pattern)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want wrapping %v", tt.pattern, err, tt.want)
			}
		})
	}
}

func TestParseTooManyGroups(t *testing.T) {
	pattern := ""
	for i := 0; i < MaxGroups+1; i++ {
		pattern += "(a)"
	}
	_, _, err := Parse(pattern)
	if !errors.Is(err, ErrTooManyGroups) {
		t.Fatalf("Parse() error = %v, want wrapping ErrTooManyGroups", err)
	}
}

func TestSyntaxErrorOffset(t *testing.T) {
	_, _, err := Parse("ab*c+d?*e")
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if synErr.Offset != 7 {
		t.Errorf("Offset = %d, want 7", synErr.Offset)
	}
}
