package structure

import (
	"testing"
)

func TestClauseNumber(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"5.2.1 Handover procedure", "5.2.1"},
		{"5 Scope", "5"},
		{"10.1 General", "10.1"},
		{"Overview", ""},
		{"5.2.1Handover", ""},
		{"", ""},
		{"1.2.3.4.5 Deep clause", "1.2.3.4.5"},
		{"Annex A 5.2", ""},
	}
	for _, c := range cases {
		if got := ClauseNumber(c.text); got != c.want {
			t.Errorf("ClauseNumber(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestHeadingStateTruncatesDeeperLevels(t *testing.T) {
	state := headingState{}
	state.set(1, "5 Protocol")
	state.set(2, "5.1 Setup")
	state.set(3, "5.1.3 Timers")

	// A new level-2 heading must close 5.1.3 before replacing 5.1.
	state.set(2, "5.2 Teardown")

	got := state.parents(maxHeadingLevel + 1)
	want := []string{"5 Protocol", "5.2 Teardown"}
	if len(got) != len(want) {
		t.Fatalf("expected parents %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parents[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestHeadingStateParentsExcludeOwnLevel(t *testing.T) {
	state := headingState{}
	state.set(1, "Chapter")
	state.set(2, "Section")
	state.set(3, "Subsection")

	got := state.parents(3)
	want := []string{"Chapter", "Section"}
	if len(got) != len(want) {
		t.Fatalf("expected parents %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parents[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestHeadingStateSkipsMissingLevels(t *testing.T) {
	state := headingState{}
	state.set(1, "Chapter")
	state.set(3, "Deep") // no level 2

	got := state.parents(maxHeadingLevel + 1)
	want := []string{"Chapter", "Deep"}
	if len(got) != len(want) {
		t.Fatalf("expected parents %v, got %v", want, got)
	}
}

func TestHeadingStateLevelSequence(t *testing.T) {
	// Sequence 1, 2, 3 then back to 2: level 3 must disappear.
	state := headingState{}
	state.set(1, "A")
	state.set(2, "B")
	state.set(3, "C")
	state.set(2, "D")

	if _, ok := state[3]; ok {
		t.Error("expected level 3 heading to be dropped after new level 2")
	}
	if state[1] != "A" {
		t.Errorf("expected level 1 untouched, got %q", state[1])
	}
	if state[2] != "D" {
		t.Errorf("expected level 2 replaced with D, got %q", state[2])
	}
}
