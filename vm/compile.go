package vm

import (
	"github.com/kanzi-re/retn/parse"
)

// Compile parses pattern and lowers it to a flat Instruction program — the
// "AST build then VM compile" lowering strategy. The whole pattern is
// wrapped in an implicit outer capturing group (slot 0/1) so that group 0
// always reports the overall match span. Unless anchored is true, an
// implicit leading non-greedy `.*` is prepended so the program searches
// for the pattern starting at any offset in a single pass, rather than
// requiring the caller to restart the VM at every position.
func Compile(pattern string, anchored bool) (*Program, error) {
	ast, numGroups, err := parse.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	root := parse.Paren(ast, 0)
	if !anchored {
		prefix := parse.Star(parse.Any(), false)
		root = parse.Concat(prefix, root)
	}

	c := &compiler{}
	c.emit(root)
	c.append(Instruction{Op: OpMatch})

	return &Program{Insts: c.insts, NumGroups: numGroups, Anchored: anchored}, nil
}

// compiler performs a single post-order pass over the AST, appending
// instructions and back-patching forward branch targets once the
// referenced code has been emitted — the instruction-array analogue of the
// NFA Builder's Fragment patch lists, specialized to a flat array where a
// "patch" is just an index assignment instead of a pointer rewrite.
type compiler struct {
	insts []Instruction
}

func (c *compiler) append(i Instruction) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

func (c *compiler) pos() int {
	return len(c.insts)
}

// emit lowers one AST node by the emission rules given in the grammar's
// VM-compiler design: a literal post-order walk with SPLIT/JMP operands
// resolved as soon as the relevant code has been emitted.
func (c *compiler) emit(n *parse.Node) {
	switch n.Kind {
	case parse.NodeEmpty:
		// No-op: emits nothing, matching the empty string unconditionally.

	case parse.NodeChar:
		c.append(Instruction{Op: OpChar, Ch: n.Ch})

	case parse.NodeAny:
		c.append(Instruction{Op: OpAny})

	case parse.NodeConcat:
		c.emit(n.Sub[0])
		c.emit(n.Sub[1])

	case parse.NodeAlt:
		c.emitAlt(n)

	case parse.NodeStar:
		c.emitStar(n)

	case parse.NodePlus:
		c.emitPlus(n)

	case parse.NodeQuest:
		c.emitQuest(n)

	case parse.NodeParen:
		c.append(Instruction{Op: OpSave, Slot: 2 * n.Group})
		c.emit(n.Sub[0])
		c.append(Instruction{Op: OpSave, Slot: 2*n.Group + 1})
	}
}

// emitAlt: SPLIT L1 L2; L1: <l>; JMP Lend; L2: <r>; Lend:
func (c *compiler) emitAlt(n *parse.Node) {
	splitIdx := c.append(Instruction{Op: OpSplit})
	l1 := c.pos()
	c.emit(n.Sub[0])
	jmpIdx := c.append(Instruction{Op: OpJmp})
	l2 := c.pos()
	c.emit(n.Sub[1])
	lend := c.pos()

	c.insts[splitIdx].Br1 = l1
	c.insts[splitIdx].Br2 = l2
	c.insts[jmpIdx].Br1 = lend
}

// emitStar: L0: SPLIT L1 L2; L1: <e>; JMP L0; L2:
// Non-greedy swaps Br1/Br2 so the exit (L2) is tried before the body (L1).
func (c *compiler) emitStar(n *parse.Node) {
	l0 := c.pos()
	splitIdx := c.append(Instruction{Op: OpSplit})
	l1 := c.pos()
	c.emit(n.Sub[0])
	c.append(Instruction{Op: OpJmp, Br1: l0})
	l2 := c.pos()

	c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = l1, l2
	if !n.Greedy {
		c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = c.insts[splitIdx].Br2, c.insts[splitIdx].Br1
	}
}

// emitPlus: L0: <e>; SPLIT L0 Lend; Lend:
// Non-greedy swaps Br1/Br2 so Lend is tried before repeating.
func (c *compiler) emitPlus(n *parse.Node) {
	l0 := c.pos()
	c.emit(n.Sub[0])
	splitIdx := c.append(Instruction{Op: OpSplit})
	lend := c.pos()

	c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = l0, lend
	if !n.Greedy {
		c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = c.insts[splitIdx].Br2, c.insts[splitIdx].Br1
	}
}

// emitQuest: SPLIT L1 L2; L1: <e>; L2:
// Non-greedy swaps Br1/Br2 so skipping is tried before taking e.
func (c *compiler) emitQuest(n *parse.Node) {
	splitIdx := c.append(Instruction{Op: OpSplit})
	l1 := c.pos()
	c.emit(n.Sub[0])
	l2 := c.pos()

	c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = l1, l2
	if !n.Greedy {
		c.insts[splitIdx].Br1, c.insts[splitIdx].Br2 = c.insts[splitIdx].Br2, c.insts[splitIdx].Br1
	}
}
