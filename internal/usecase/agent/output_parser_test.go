package agent

import "testing"

func TestParseOutput_WellFormed(t *testing.T) {
	out := "Thought: I should search.\nAction: search[query=\"x\", k=3]"
	p := parseOutput(out)
	if p.thought != "I should search." {
		t.Errorf("unexpected thought %q", p.thought)
	}
	if p.actionLine != `Action: search[query="x", k=3]` {
		t.Errorf("unexpected action line %q", p.actionLine)
	}
	if p.noAction {
		t.Error("noAction should be false")
	}
}

func TestParseOutput_NoAction(t *testing.T) {
	p := parseOutput("I am just rambling without any tool call.")
	if !p.noAction {
		t.Fatal("expected noAction")
	}
	if p.thought != "I am just rambling without any tool call." {
		t.Errorf("unexpected thought %q", p.thought)
	}
	if p.actionLine != forcedFinishLine {
		t.Errorf("expected forced finish line, got %q", p.actionLine)
	}
}

func TestParseOutput_NoThoughtMarker(t *testing.T) {
	p := parseOutput("some loose reasoning\nAction: finish[answer=\"done\"]")
	if p.thought != "some loose reasoning" {
		t.Errorf("unexpected thought %q", p.thought)
	}
	if p.actionLine != `Action: finish[answer="done"]` {
		t.Errorf("unexpected action line %q", p.actionLine)
	}
}

func TestParseOutput_TrailingTextAfterAction(t *testing.T) {
	out := "Thought: ok\nAction: finish[answer=\"a\"]\nObservation: fabricated"
	p := parseOutput(out)
	if p.actionLine != `Action: finish[answer="a"]` {
		t.Errorf("action line should stop at newline, got %q", p.actionLine)
	}
}

func TestParseOutput_MultipleActionsFirstWins(t *testing.T) {
	out := "Thought: t\nAction: search[query=\"a\"]\nAction: finish[answer=\"b\"]"
	p := parseOutput(out)
	if p.actionLine != `Action: search[query="a"]` {
		t.Errorf("expected first action, got %q", p.actionLine)
	}
}

func TestParseOutput_EmptyThought(t *testing.T) {
	p := parseOutput("Thought:\nAction: finish[answer=\"a\"]")
	if p.thought != "" {
		t.Errorf("expected empty thought, got %q", p.thought)
	}
}

func TestParseOutput_MarkersOutOfOrder(t *testing.T) {
	// Thought after Action: everything following the marker becomes the thought.
	out := "Action: finish[answer=\"a\"]\nThought: too late"
	p := parseOutput(out)
	if p.thought != "too late" {
		t.Errorf("unexpected thought %q", p.thought)
	}
	if p.actionLine != `Action: finish[answer="a"]` {
		t.Errorf("unexpected action line %q", p.actionLine)
	}
}
