package agent

import (
	"strings"
	"testing"
)

func TestDecomposeSingleQuestion(t *testing.T) {
	got := Decompose("What was revenue in 2025?")
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1: %v", len(got), got)
	}
	if got[0] != "What was revenue in 2025?" {
		t.Errorf("single question was altered: %q", got[0])
	}
}

func TestDecomposeMultipleQuestionMarks(t *testing.T) {
	got := Decompose("What was revenue in 2025? Why did net income beat budget?")
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2: %v", len(got), got)
	}
	for i, q := range got {
		if !strings.HasSuffix(q, "?") {
			t.Errorf("question %d not re-terminated: %q", i, q)
		}
	}
	if got[0] != "What was revenue in 2025?" {
		t.Errorf("first question = %q", got[0])
	}
	if got[1] != "Why did net income beat budget?" {
		t.Errorf("second question = %q", got[1])
	}
}

func TestDecomposeNumberedList(t *testing.T) {
	got := Decompose("1. What was revenue last year 2. How should we optimize crop mix")
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2: %v", len(got), got)
	}
	if !strings.HasSuffix(got[0], "?") || !strings.HasSuffix(got[1], "?") {
		t.Errorf("fragments not re-terminated: %v", got)
	}
}

func TestDecomposeBullets(t *testing.T) {
	got := Decompose("- What was revenue in 2025\n- Why did EBITDA beat budget")
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2: %v", len(got), got)
	}
}

func TestDecomposeConjunctionKeepsInterrogative(t *testing.T) {
	got := Decompose("Show me 2025 revenue and what drove the variance")
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2: %v", len(got), got)
	}
	if !strings.HasPrefix(strings.ToLower(got[1]), "what") {
		t.Errorf("second fragment lost its interrogative: %q", got[1])
	}
}

func TestDecomposeFiltersShortFragments(t *testing.T) {
	// The trailing "ok?" fragment is a split artifact, not a question.
	got := Decompose("What was the revenue for fiscal year 2025? ok?")
	if len(got) != 1 {
		t.Fatalf("got %d questions, want 1: %v", len(got), got)
	}
}

func TestDecomposeEmpty(t *testing.T) {
	if got := Decompose("   "); got != nil {
		t.Errorf("blank message returned %v", got)
	}
}
