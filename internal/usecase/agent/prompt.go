package agent

import (
	"strings"

	"github.com/kalder-cloud/reagent/internal/domain"
)

// systemPreamble is the fixed instruction block prepended to every prompt.
const systemPreamble = "You are a helpful ReAct agent. You may use tools to answer factual questions.\n\n" +
	"Available tools:\n" +
	"- search[query=\"<text>\", k=<int>] # searches the tech corpus\n" +
	"- finish[answer=\"<final answer>\"] # ends the task\n\n" +
	"Follow the exact step format:\n" +
	"Thought: <your reasoning>\n" +
	"Action: <one of the tool calls above>\n\n" +
	"IMPORTANT:\n" +
	"- When you use finish[answer=...], provide a clear, well-structured paragraph that fully answers the user question.\n" +
	"- The paragraph should be natural language, not just keywords.\n" +
	"- You MUST call finish[] once you have enough information to answer.\n" +
	"- Do not search more than 2-3 times before finishing.\n"

// renderHistory renders the trajectory as Thought/Action/Observation lines,
// one triple per step.
func renderHistory(trajectory domain.Trajectory) string {
	var b strings.Builder
	for i, step := range trajectory {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Thought: ")
		b.WriteString(step.Thought)
		b.WriteString("\nAction: ")
		b.WriteString(step.Action)
		b.WriteString("\nObservation: ")
		b.WriteString(step.Observation)
	}
	return b.String()
}

// buildPrompt assembles the full prompt for the next model call: fixed
// instructions, the user question, and the finalized history so far.
func buildPrompt(query string, trajectory domain.Trajectory) string {
	history := renderHistory(trajectory)
	if history == "" {
		return systemPreamble + "\n\nUser Question: " + query + "\n\nBegin:"
	}
	return systemPreamble + "\n\nUser Question: " + query + "\n\n" + history + "\n\nNext step:"
}
