package nfa

import (
	"github.com/kanzi-re/retn/parse"
)

// Compile parses pattern and lowers it directly to a Thompson-constructed
// NFA (C2), without ever materializing VM instructions — the "direct NFA
// build" lowering strategy, used by the NFA simulator (sim.go) and the
// lazy DFA (package dfa/lazy). Capture groups are not represented in this
// NFA: submatch extraction is the Thread VM pipeline's job (package vm).
func Compile(pattern string) (*NFA, error) {
	ast, _, err := parse.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	b := NewBuilder()
	frag, err := compileNode(b, ast)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	match := b.AddMatch()
	if err := b.PatchTo(frag, match); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	b.SetStart(frag.Start)

	n, err := b.Build()
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return n, nil
}

// compileNode lowers one AST node to a Fragment, following the
// McNaughton-Yamada/Thompson construction rules verbatim:
//
//   - Char/Any: a single ByteRange state with one dangling `next` out-edge.
//   - Concat: patch e1's dangling outs to e2.Start; result carries e2's outs.
//   - Alt: a new Split state whose branches are e1.Start/e2.Start; result
//     carries both operands' dangling outs.
//   - Star/Plus/Quest: a new Split state wired per the repetition's entry
//     and exit edges; the operand's own dangling outs are patched back to
//     the Split (for Star/Plus) before the fragment is returned.
//
// Paren nodes are transparent here: C2 has no capture representation, so a
// group's bytes are compiled exactly as its contents would be on their own.
func compileNode(b *Builder, n *parse.Node) (Fragment, error) {
	switch n.Kind {
	case parse.NodeEmpty:
		return compileEmpty(b), nil

	case parse.NodeChar:
		s := b.AddByteRange(n.Ch, n.Ch, InvalidState)
		return NewFragment(s), nil

	case parse.NodeAny:
		s := b.AddByteRange(0x00, 0xFF, InvalidState)
		return NewFragment(s), nil

	case parse.NodeParen:
		return compileNode(b, n.Sub[0])

	case parse.NodeConcat:
		left, err := compileNode(b, n.Sub[0])
		if err != nil {
			return Fragment{}, err
		}
		right, err := compileNode(b, n.Sub[1])
		if err != nil {
			return Fragment{}, err
		}
		if err := b.PatchTo(left, right.Start); err != nil {
			return Fragment{}, err
		}
		return Fragment{Start: left.Start, out: right.out}, nil

	case parse.NodeAlt:
		left, err := compileNode(b, n.Sub[0])
		if err != nil {
			return Fragment{}, err
		}
		right, err := compileNode(b, n.Sub[1])
		if err != nil {
			return Fragment{}, err
		}
		split := b.AddSplit(left.Start, right.Start)
		return Fragment{Start: split, out: append(append([]patch{}, left.out...), right.out...)}, nil

	case parse.NodeStar:
		return compileStar(b, n)

	case parse.NodePlus:
		return compilePlus(b, n)

	case parse.NodeQuest:
		return compileQuest(b, n)

	default:
		return Fragment{}, &BuildError{Message: "unsupported AST node kind"}
	}
}

// compileEmpty represents the empty string as a Split whose two branches
// are both dangling and immediately converge at whatever follows — an
// epsilon fragment with no byte-consuming state at all.
func compileEmpty(b *Builder) Fragment {
	s := b.AddSplit(InvalidState, InvalidState)
	return SplitOutBoth(s)
}

// compileStar builds `e*`: a Split s with s.left = e.Start (take the loop
// body again), s.right dangling (exit); e's own dangling outs are patched
// back to s so the loop repeats. For the non-greedy `*?`, left/right are
// swapped so the exit branch is tried before the loop body.
func compileStar(b *Builder, n *parse.Node) (Fragment, error) {
	e, err := compileNode(b, n.Sub[0])
	if err != nil {
		return Fragment{}, err
	}
	split := b.AddSplit(e.Start, InvalidState)
	if err := b.PatchTo(e, split); err != nil {
		return Fragment{}, err
	}
	if !n.Greedy {
		if err := swapSplitBranches(b, split); err != nil {
			return Fragment{}, err
		}
		return SplitOutLeft(split), nil
	}
	return SplitOutRight(split), nil
}

// compilePlus builds `e+`: e runs once unconditionally, then a Split
// either repeats (left) or exits (right dangling). Unlike Star, the
// fragment's Start is e.Start itself, not the Split.
func compilePlus(b *Builder, n *parse.Node) (Fragment, error) {
	e, err := compileNode(b, n.Sub[0])
	if err != nil {
		return Fragment{}, err
	}
	split := b.AddSplit(e.Start, InvalidState)
	if err := b.PatchTo(e, split); err != nil {
		return Fragment{}, err
	}
	if !n.Greedy {
		if err := swapSplitBranches(b, split); err != nil {
			return Fragment{}, err
		}
		return Fragment{Start: e.Start, out: []patch{{state: split, slot: slotLeft}}}, nil
	}
	return Fragment{Start: e.Start, out: []patch{{state: split, slot: slotRight}}}, nil
}

// compileQuest builds `e?`: a Split whose left branch takes e and whose
// right branch skips it; both e's own dangling outs and the Split's skip
// branch remain dangling.
func compileQuest(b *Builder, n *parse.Node) (Fragment, error) {
	e, err := compileNode(b, n.Sub[0])
	if err != nil {
		return Fragment{}, err
	}
	split := b.AddSplit(e.Start, InvalidState)
	out := append(append([]patch{}, e.out...), patch{state: split, slot: slotRight})
	if !n.Greedy {
		if err := swapSplitBranches(b, split); err != nil {
			return Fragment{}, err
		}
		out = append(append([]patch{}, e.out...), patch{state: split, slot: slotLeft})
	}
	return Fragment{Start: split, out: out}, nil
}

// swapSplitBranches exchanges a Split state's left/right targets in place,
// the mechanism by which a non-greedy repetition operator is given lower
// priority than its greedy counterpart: closure() always explores left
// before right, so swapping flips which branch (repeat vs. exit) wins.
func swapSplitBranches(b *Builder, split StateID) error {
	s, err := b.at(split)
	if err != nil {
		return err
	}
	s.left, s.right = s.right, s.left
	return nil
}
