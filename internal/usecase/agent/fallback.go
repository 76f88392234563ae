package agent

import (
	"encoding/json"

	"github.com/kalder-cloud/reagent/internal/domain"
)

const (
	// noAnswerSentinel is returned when the step budget ran out and no
	// search results were ever collected.
	noAnswerSentinel = "(max steps reached, no final answer)"

	// fallbackResultLimit caps how many collected results go into the
	// synthesized answer.
	fallbackResultLimit = 3
)

// fallbackAnswer synthesizes an answer after step exhaustion by scanning
// every non-done observation for structured results payloads and summarizing
// the first few collected hits.
func fallbackAnswer(trajectory domain.Trajectory) string {
	var collected []domain.SearchResult
	for _, step := range trajectory {
		if step.Observation == "" || step.Observation == domain.ObservationDone {
			continue
		}
		var obs domain.Observation
		if err := json.Unmarshal([]byte(step.Observation), &obs); err != nil {
			continue
		}
		collected = append(collected, obs.Results...)
	}

	if len(collected) == 0 {
		return noAnswerSentinel
	}
	if len(collected) > fallbackResultLimit {
		collected = collected[:fallbackResultLimit]
	}
	summary, err := json.MarshalIndent(collected, "", "  ")
	if err != nil {
		return noAnswerSentinel
	}
	return "Based on search results: " + string(summary)
}
