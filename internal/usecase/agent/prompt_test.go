package agent

import (
	"strings"
	"testing"

	"github.com/kalder-cloud/reagent/internal/domain"
)

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	p := buildPrompt("what is raft?", nil)
	if !strings.HasPrefix(p, systemPreamble) {
		t.Error("prompt must start with the instruction block")
	}
	if !strings.Contains(p, "User Question: what is raft?") {
		t.Error("prompt must carry the user question")
	}
	if !strings.HasSuffix(p, "\n\nBegin:") {
		t.Errorf("empty-history prompt must end with Begin:, got %q", p[len(p)-20:])
	}
}

func TestBuildPrompt_WithHistory(t *testing.T) {
	trajectory := domain.Trajectory{
		{Thought: "t1", Action: `Action: search[query="a"]`, Observation: `{"results": []}`},
	}
	p := buildPrompt("q", trajectory)
	if !strings.HasSuffix(p, "\n\nNext step:") {
		t.Error("history prompt must end with Next step:")
	}
	if !strings.Contains(p, "Thought: t1\nAction: Action: search") {
		// The action field stores the full line including the marker.
		t.Errorf("history rendering missing step content:\n%s", p)
	}
}

func TestRenderHistory_StepOrder(t *testing.T) {
	trajectory := domain.Trajectory{
		{Thought: "first", Action: "a1", Observation: "o1"},
		{Thought: "second", Action: "a2", Observation: "o2"},
	}
	h := renderHistory(trajectory)
	want := "Thought: first\nAction: a1\nObservation: o1\nThought: second\nAction: a2\nObservation: o2"
	if h != want {
		t.Errorf("unexpected history:\n%q\nwant:\n%q", h, want)
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	if h := renderHistory(nil); h != "" {
		t.Errorf("expected empty history, got %q", h)
	}
}
