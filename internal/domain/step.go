package domain

// Step is one row of the reasoning trace: what the model thought, which
// tool call it emitted, and what came back. Immutable once appended.
type Step struct {
	Thought     string
	Action      string
	Observation string
}

// Trajectory is the ordered, append-only history of steps for one query.
// It is exclusively owned by a single control loop run.
type Trajectory []Step

// ObservationDone is the sentinel observation recorded for a finish call.
const ObservationDone = "done"
