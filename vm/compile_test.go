package vm

import "testing"

func TestCompileProducesMatch(t *testing.T) {
	prog, err := Compile("abc", true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	last := prog.Insts[len(prog.Insts)-1]
	if last.Op != OpMatch {
		t.Errorf("last instruction = %v, want MATCH", last.Op)
	}
}

func TestCompileUnanchoredPrefix(t *testing.T) {
	prog, err := Compile("abc", false)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if prog.Insts[0].Op != OpSplit {
		t.Errorf("first instruction = %v, want SPLIT (implicit .*)", prog.Insts[0].Op)
	}
}

func TestCompileGroupSlots(t *testing.T) {
	prog, err := Compile("(a)(b)", true)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if prog.NumGroups != 2 {
		t.Fatalf("NumGroups = %d, want 2", prog.NumGroups)
	}
	if prog.NumSlots() != 6 {
		t.Fatalf("NumSlots() = %d, want 6", prog.NumSlots())
	}

	var saveSlots []int
	for _, inst := range prog.Insts {
		if inst.Op == OpSave {
			saveSlots = append(saveSlots, inst.Slot)
		}
	}
	want := []int{0, 2, 3, 4, 5, 1}
	if len(saveSlots) != len(want) {
		t.Fatalf("SAVE slots = %v, want %v", saveSlots, want)
	}
	for i, s := range want {
		if saveSlots[i] != s {
			t.Errorf("SAVE[%d] = %d, want %d", i, saveSlots[i], s)
		}
	}
}
