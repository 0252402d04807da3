package vm

import (
	"github.com/kanzi-re/retn/internal/sparse"
)

// cowCaptures implements copy-on-write capture slots: threads that fork at
// a SPLIT share the same underlying data until one of them writes a SAVE
// slot, at which point only that thread's view is copied. This avoids an
// allocation on every thread fork, which otherwise dominates cost for
// patterns with many alternations/repetitions.
type cowCaptures struct {
	shared *sharedCaptures
}

type sharedCaptures struct {
	data []int
	refs int
}

// clone returns a new handle to the same underlying data, incrementing the
// reference count. No copy happens until update is called while refs > 1.
func (c cowCaptures) clone() cowCaptures {
	if c.shared == nil {
		return cowCaptures{}
	}
	c.shared.refs++
	return cowCaptures{shared: c.shared}
}

// update sets slot to value, copying the underlying data first if it is
// shared with another live thread.
func (c cowCaptures) update(slot, value int) cowCaptures {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.data) {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[slot] = value
		return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
	}
	c.shared.data[slot] = value
	return c
}

// copyData returns an independent copy of the capture vector, safe to keep
// after the thread that owned it is discarded.
func (c cowCaptures) copyData() []int {
	if c.shared == nil {
		return nil
	}
	dst := make([]int, len(c.shared.data))
	copy(dst, c.shared.data)
	return dst
}

// thread is an active VM execution cursor: a program counter and its
// capture vector. Threads are kept in priority order within a list —
// earlier entries are explored, and shadow, later ones.
type thread struct {
	pc   int
	caps cowCaptures
}

// ThreadVM executes a compiled Program against an input using Pike's
// thread-list algorithm (C5), producing the leftmost-priority match and
// its capture groups.
//
// A ThreadVM holds reusable buffers (the two thread lists and the visited
// set) and is not safe for concurrent use; one instance should serve one
// goroutine at a time, mirroring the Compiled Pattern's single-owner
// matching contract.
type ThreadVM struct {
	prog *Program

	clist, nlist []thread
	visited      *sparse.SparseSet
}

// NewThreadVM creates a ThreadVM for the given compiled program.
func NewThreadVM(p *Program) *ThreadVM {
	capacity := len(p.Insts)
	if capacity < 16 {
		capacity = 16
	}
	return &ThreadVM{
		prog:    p,
		clist:   make([]thread, 0, capacity),
		nlist:   make([]thread, 0, capacity),
		visited: sparse.NewSparseSet(uint32(capacity)),
	}
}

func (vm *ThreadVM) newCaptures() cowCaptures {
	data := make([]int, vm.prog.NumSlots())
	for i := range data {
		data[i] = -1
	}
	return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
}

// addThread performs epsilon-closure inline while spawning: SPLIT recurses
// into both branches in priority order (Br1 first), JMP recurses into its
// single target, SAVE clones/updates the capture vector and recurses to
// pc+1, and every other opcode (CHAR, ANY, MATCH) is a real thread and
// gets appended to list. The visited set guarantees each pc is added at
// most once per step, exactly as the generation tag does for the NFA
// simulator's closure.
func (vm *ThreadVM) addThread(list *[]thread, pc int, caps cowCaptures, sp int) {
	if vm.visited.Contains(uint32(pc)) {
		return
	}
	vm.visited.Insert(uint32(pc))

	inst := vm.prog.Insts[pc]
	switch inst.Op {
	case OpJmp:
		vm.addThread(list, inst.Br1, caps, sp)
	case OpSplit:
		left := caps.clone()
		vm.addThread(list, inst.Br1, left, sp)
		vm.addThread(list, inst.Br2, caps, sp)
	case OpSave:
		updated := caps.update(inst.Slot, sp)
		vm.addThread(list, pc+1, updated, sp)
	default:
		*list = append(*list, thread{pc: pc, caps: caps})
	}
}

// Result is a successful match's capture positions. Result[0]/Result[1]
// hold the overall match span; Result[2k]/Result[2k+1] hold group k's
// span, or -1/-1 if group k did not participate.
type Result struct {
	Slots []int
}

// Group returns the (start, end) span of group k, and false if the group
// did not participate in the match.
func (r *Result) Group(k int) (start, end int, ok bool) {
	i := 2 * k
	if i+1 >= len(r.Slots) || r.Slots[i] < 0 || r.Slots[i+1] < 0 {
		return 0, 0, false
	}
	return r.Slots[i], r.Slots[i+1], true
}

// Run executes the program against input, returning the leftmost
// priority-ordered match, if any.
//
// The matching loop follows the spec's thread-list algorithm directly:
// at each position, MATCH truncates the remainder of the current list
// (discarding lower-priority threads for this step only — higher-priority
// threads already queued into the next list keep running), and the
// recorded capture vector is overwritten by every later MATCH, so the
// final recorded result is always the highest-priority one, reflecting
// greedy/non-greedy priority exactly as SPLIT ordering encodes it.
func (vm *ThreadVM) Run(input []byte) (*Result, bool) {
	vm.clist = vm.clist[:0]
	vm.nlist = vm.nlist[:0]
	vm.visited.Clear()

	vm.addThread(&vm.clist, 0, vm.newCaptures(), 0)

	var best []int
	matched := false

	for pos := 0; pos <= len(input); pos++ {
		if len(vm.clist) == 0 {
			break
		}
		vm.visited.Clear()
		vm.nlist = vm.nlist[:0]

	threads:
		for _, t := range vm.clist {
			inst := vm.prog.Insts[t.pc]
			switch inst.Op {
			case OpChar:
				if pos < len(input) && input[pos] == inst.Ch {
					vm.addThread(&vm.nlist, t.pc+1, t.caps, pos+1)
				}
			case OpAny:
				if pos < len(input) {
					vm.addThread(&vm.nlist, t.pc+1, t.caps, pos+1)
				}
			case OpMatch:
				best = t.caps.copyData()
				matched = true
				break threads
			}
		}

		vm.clist, vm.nlist = vm.nlist, vm.clist
	}

	if !matched {
		return nil, false
	}
	return &Result{Slots: best}, true
}
