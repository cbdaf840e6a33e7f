package indent

import "testing"

func TestTransitionBranchConstruct(t *testing.T) {
	lines := []string{
		"Select a",
		"Case 1",
		"foo()",
		"Default",
		"bar()",
		"EndSelect",
	}
	wantLevels := []int{0, 1, 2, 1, 2, 0}

	var st State
	for i, line := range lines {
		var level int
		st, level, _ = Transition(st, line)
		if level != wantLevels[i] {
			t.Errorf("line %d %q: emitted level %d, want %d", i, line, level, wantLevels[i])
		}
	}
	if st.InBranch {
		t.Error("InBranch still set after EndSelect")
	}
	if st.Level != 0 {
		t.Errorf("final level = %d, want 0", st.Level)
	}
}

func TestTransitionStatementBeforeFirstCase(t *testing.T) {
	var st State
	st, _, _ = Transition(st, "Select a")

	// statements ahead of the first Case stay one level inside the construct
	st, level, _ := Transition(st, "prepare()")
	if level != 1 {
		t.Errorf("statement before first case emitted at %d, want 1", level)
	}
	if st.Level != 1 {
		t.Errorf("level after pinning = %d, want 1", st.Level)
	}

	st, level, _ = Transition(st, "Case 1")
	if level != 1 {
		t.Errorf("Case after leading statement emitted at %d, want 1", level)
	}
	if !st.CaseSeen {
		t.Error("CaseSeen not set by Case label")
	}
}

// A transfer keyword between the branch opener and the first case label must
// stay net-zero and must not sink the level below the construct body.
func TestTransferInsideSelectBeforeCase(t *testing.T) {
	var st State
	st, _, _ = Transition(st, "Select a")
	st, _, _ = Transition(st, "Else")
	if st.Level != 1 {
		t.Errorf("level after transfer inside branch = %d, want 1", st.Level)
	}
	st, level, _ := Transition(st, "Case 1")
	if level != 1 {
		t.Errorf("Case emitted at %d, want 1", level)
	}
}

func TestTransitionTransferNetZero(t *testing.T) {
	var st State
	st, _, _ = Transition(st, "If a")
	before := st.Level

	st, level, _ := Transition(st, "Else")
	if level != before-1 {
		t.Errorf("Else emitted at %d, want %d", level, before-1)
	}
	if st.Level != before {
		t.Errorf("level after Else = %d, want %d (net-zero)", st.Level, before)
	}
}

func TestTransitionUnbalancedCloserClampsAtZero(t *testing.T) {
	var st State
	st, level, _ := Transition(st, "EndIf")
	if level != 0 {
		t.Errorf("stray EndIf emitted at %d, want 0", level)
	}
	if st.Level != 0 {
		t.Errorf("level after stray EndIf = %d, want 0", st.Level)
	}

	// a stray EndSelect with no open branch degrades to a generic dedent
	st, level, _ = Transition(st, "EndSelect")
	if level != 0 || st.Level != 0 {
		t.Errorf("stray EndSelect: level %d, state %d; want 0, 0", level, st.Level)
	}
}

func TestTransitionCaseOutsideBranchIsPlain(t *testing.T) {
	var st State
	st, level, _ := Transition(st, "Case 1")
	if level != 0 {
		t.Errorf("top-level Case emitted at %d, want 0", level)
	}
	if st.Level != 0 || st.InBranch || st.CaseSeen {
		t.Errorf("top-level Case changed state: %+v", st)
	}
}

func TestTransitionBlankAndCommentLines(t *testing.T) {
	var st State
	st, _, _ = Transition(st, "If a")

	next, _, blank := Transition(st, "   ")
	if !blank {
		t.Error("whitespace-only line not reported blank")
	}
	if next != st {
		t.Errorf("blank line changed state: %+v -> %+v", st, next)
	}

	next, level, blank := Transition(st, "; just a note with EndIf inside")
	if blank {
		t.Error("comment-only line reported blank")
	}
	if level != st.Level {
		t.Errorf("comment line emitted at %d, want %d", level, st.Level)
	}
	if next != st {
		t.Errorf("comment line changed state: %+v -> %+v", st, next)
	}
}

func TestTransitionInlineSuppressesAll(t *testing.T) {
	var st State
	st, _, _ = Transition(st, "Procedure Foo()")

	next, level, _ := Transition(st, "If a : b() : EndIf")
	if level != st.Level {
		t.Errorf("inline line emitted at %d, want %d", level, st.Level)
	}
	if next != st {
		t.Errorf("inline line changed state: %+v -> %+v", st, next)
	}
}

func TestReconstructMatchesDocumentPass(t *testing.T) {
	lines := []string{
		"Procedure Run()",
		"Select cmd",
		"Case 1",
		"If ok",
		"step()",
		"; note",
		"EndIf",
		"Default",
		"other()",
		"EndSelect",
		"EndProcedure",
	}

	for cut := 0; cut <= len(lines); cut++ {
		want := State{}
		for _, line := range lines[:cut] {
			want, _, _ = Transition(want, line)
		}
		if got := Reconstruct(lines[:cut]); got != want {
			t.Errorf("Reconstruct(lines[:%d]) = %+v, want %+v", cut, got, want)
		}
	}
}
