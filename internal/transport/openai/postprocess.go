package openai

import "strings"

// Defaults substituted when the model drops one of the two required lines.
const (
	defaultThoughtLine = "I should search for key facts related to the question."
	defaultActionLine  = `search[query="(auto) refine the user question", k=3]`
)

// postprocessTwoLines normalizes a raw completion to exactly
//
//	Thought: <sentence>
//	Action: <tool call>
//
// Anything the model hallucinated from an "Observation:" line onward is
// dropped; the first Thought and first Action lines win; missing lines
// fall back to the defaults.
func postprocessTwoLines(text string) string {
	if idx := strings.Index(text, "\nObservation:"); idx != -1 {
		text = text[:idx]
	}

	var thought, action string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if thought == "" {
			if rest, ok := strings.CutPrefix(line, "Thought:"); ok {
				thought = strings.TrimSpace(rest)
				continue
			}
		}
		if action == "" {
			if rest, ok := strings.CutPrefix(line, "Action:"); ok {
				action = strings.TrimSpace(rest)
			}
		}
	}

	if thought == "" {
		thought = defaultThoughtLine
	}
	if action == "" {
		action = defaultActionLine
	}
	return "Thought: " + thought + "\nAction: " + action
}
