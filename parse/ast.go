// Package parse implements the pattern front-end: a hand-written
// recursive-descent parser over the engine's minimal regex grammar, and the
// AST it produces for the VM compiler (package vm). Package nfa's Thompson
// builder consumes the same AST directly, so both execution pipelines (the
// parallel NFA simulator and the instruction-based thread VM) share one
// front-end.
package parse

import "fmt"

// NodeKind identifies the kind of an AST node.
type NodeKind uint8

const (
	// NodeEmpty matches the empty string. Produced for `()`  and for a
	// pattern with no primitives at all (the empty pattern).
	NodeEmpty NodeKind = iota

	// NodeChar matches a single literal byte (Ch).
	NodeChar

	// NodeAny matches any byte except the input terminator.
	NodeAny

	// NodeConcat matches Sub[0] followed by Sub[1].
	NodeConcat

	// NodeAlt matches Sub[0] or Sub[1], preferring Sub[0].
	NodeAlt

	// NodeStar matches Sub[0] zero or more times.
	NodeStar

	// NodePlus matches Sub[0] one or more times.
	NodePlus

	// NodeQuest matches Sub[0] zero or one times.
	NodeQuest

	// NodeParen wraps Sub[0] as capturing group Group.
	NodeParen
)

func (k NodeKind) String() string {
	switch k {
	case NodeEmpty:
		return "Empty"
	case NodeChar:
		return "Char"
	case NodeAny:
		return "Any"
	case NodeConcat:
		return "Concat"
	case NodeAlt:
		return "Alt"
	case NodeStar:
		return "Star"
	case NodePlus:
		return "Plus"
	case NodeQuest:
		return "Quest"
	case NodeParen:
		return "Paren"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Node is one node of the pattern's abstract syntax tree.
//
// Sub holds operand subtrees: Concat and Alt have two, Star/Plus/Quest/Paren
// have one, Char/Any/Empty have none. Greedy applies to Star/Plus/Quest and
// is false for the `*?`, `+?`, `??` non-greedy variants. Group is the
// 1-indexed capture group number, valid only on NodeParen.
type Node struct {
	Kind   NodeKind
	Ch     byte
	Sub    []*Node
	Greedy bool
	Group  int
}

// Char returns a literal-byte node.
func Char(c byte) *Node {
	return &Node{Kind: NodeChar, Ch: c}
}

// Any returns a `.` node.
func Any() *Node {
	return &Node{Kind: NodeAny}
}

// Empty returns a node matching the empty string.
func Empty() *Node {
	return &Node{Kind: NodeEmpty}
}

// Concat returns a node matching l followed by r.
func Concat(l, r *Node) *Node {
	return &Node{Kind: NodeConcat, Sub: []*Node{l, r}}
}

// Alt returns a node matching l or r, preferring l.
func Alt(l, r *Node) *Node {
	return &Node{Kind: NodeAlt, Sub: []*Node{l, r}}
}

// Star returns a `*` node over e with the given greediness.
func Star(e *Node, greedy bool) *Node {
	return &Node{Kind: NodeStar, Sub: []*Node{e}, Greedy: greedy}
}

// Plus returns a `+` node over e with the given greediness.
func Plus(e *Node, greedy bool) *Node {
	return &Node{Kind: NodePlus, Sub: []*Node{e}, Greedy: greedy}
}

// Quest returns a `?` node over e with the given greediness.
func Quest(e *Node, greedy bool) *Node {
	return &Node{Kind: NodeQuest, Sub: []*Node{e}, Greedy: greedy}
}

// Paren returns a capturing-group node wrapping e as group number group.
func Paren(e *Node, group int) *Node {
	return &Node{Kind: NodeParen, Sub: []*Node{e}, Group: group}
}

// String renders the AST in a small s-expression form, useful for test
// failure messages and debugging; it is not used by the matching engines.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NodeEmpty:
		return "Empty"
	case NodeChar:
		return fmt.Sprintf("Char(%q)", n.Ch)
	case NodeAny:
		return "Any"
	case NodeConcat:
		return fmt.Sprintf("Concat(%s, %s)", n.Sub[0], n.Sub[1])
	case NodeAlt:
		return fmt.Sprintf("Alt(%s, %s)", n.Sub[0], n.Sub[1])
	case NodeStar:
		return fmt.Sprintf("Star(%s, greedy=%v)", n.Sub[0], n.Greedy)
	case NodePlus:
		return fmt.Sprintf("Plus(%s, greedy=%v)", n.Sub[0], n.Greedy)
	case NodeQuest:
		return fmt.Sprintf("Quest(%s, greedy=%v)", n.Sub[0], n.Greedy)
	case NodeParen:
		return fmt.Sprintf("Paren(%d, %s)", n.Group, n.Sub[0])
	default:
		return n.Kind.String()
	}
}
