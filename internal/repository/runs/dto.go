// Package runs persists finished agent runs. Two backends share the same
// JSON payload shape: a directory of timestamped files, and a Redis store
// keyed by the same identifiers.
package runs

import (
	"github.com/kalder-cloud/reagent/internal/domain"
)

// timestampLayout keys runs at second resolution. Two runs finishing within
// the same second share a key and the later write wins; kept for
// compatibility with previously recorded run files.
const timestampLayout = "20060102_150405"

// runIDPrefix prefixes every run identifier.
const runIDPrefix = "run_"

type stepDTO struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	Observation string `json:"observation"`
}

type resultDTO struct {
	Answer     string    `json:"answer"`
	Trajectory []stepDTO `json:"trajectory"`
}

type runDTO struct {
	Query  string    `json:"query"`
	Result resultDTO `json:"result"`
}

func toDTO(run domain.AgentRun) runDTO {
	steps := make([]stepDTO, len(run.Result.Trajectory))
	for i, s := range run.Result.Trajectory {
		steps[i] = stepDTO{Thought: s.Thought, Action: s.Action, Observation: s.Observation}
	}
	return runDTO{
		Query:  run.Query,
		Result: resultDTO{Answer: run.Result.Answer, Trajectory: steps},
	}
}

func fromDTO(id string, dto runDTO) domain.AgentRun {
	steps := make(domain.Trajectory, len(dto.Result.Trajectory))
	for i, s := range dto.Result.Trajectory {
		steps[i] = domain.Step{Thought: s.Thought, Action: s.Action, Observation: s.Observation}
	}
	return domain.AgentRun{
		ID:     id,
		Query:  dto.Query,
		Result: domain.Result{Answer: dto.Result.Answer, Trajectory: steps},
	}
}
