package agent

import "strings"

const (
	thoughtMarker = "Thought:"
	actionMarker  = "Action:"

	// forcedFinishLine terminates the run when the model emitted no action.
	forcedFinishLine = `Action: finish[answer="(no answer)"]`
)

// parsedOutput is the always-well-formed result of splitting a completion.
type parsedOutput struct {
	thought    string
	actionLine string
	// noAction reports that the completion carried no Action marker and the
	// action line was forced to a finish. Diagnostic only.
	noAction bool
}

// parseOutput splits a raw completion into a thought and an action line.
// It never fails: missing markers degrade to defaults.
func parseOutput(out string) parsedOutput {
	aIdx := strings.Index(out, actionMarker)
	if aIdx == -1 {
		return parsedOutput{
			thought:    strings.TrimSpace(out),
			actionLine: forcedFinishLine,
			noAction:   true,
		}
	}

	var thought string
	if tIdx := strings.Index(out, thoughtMarker); tIdx != -1 {
		// Text strictly between Thought: and the first subsequent Action:
		// (or end of string when the markers are out of order).
		rest := out[tIdx+len(thoughtMarker):]
		if next := strings.Index(rest, actionMarker); next != -1 {
			rest = rest[:next]
		}
		thought = strings.TrimSpace(rest)
	} else {
		thought = strings.TrimSpace(out[:aIdx])
	}

	line := out[aIdx+len(actionMarker):]
	if nl := strings.IndexByte(line, '\n'); nl != -1 {
		line = line[:nl]
	}

	return parsedOutput{
		thought:    thought,
		actionLine: actionMarker + " " + strings.TrimSpace(line),
	}
}
