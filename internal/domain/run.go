package domain

// Result is the terminal outcome of one control loop run.
type Result struct {
	Answer     string
	Trajectory Trajectory
}

// AgentRun is the persisted artifact: one query and its finished result.
// Created exactly once when the loop terminates, never mutated afterward.
type AgentRun struct {
	ID     string
	Query  string
	Result Result
}

// AgentConfig bounds and tunes one control loop instance.
type AgentConfig struct {
	MaxSteps     int
	AllowedTools []string
	Verbose      bool
}

// DefaultAgentConfig returns the stock loop configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxSteps:     6,
		AllowedTools: []string{ToolSearch, ToolFinish},
	}
}

// ApplyDefaults fills zero fields with default values.
func (c *AgentConfig) ApplyDefaults() {
	if c.MaxSteps <= 0 {
		c.MaxSteps = 6
	}
	if len(c.AllowedTools) == 0 {
		c.AllowedTools = []string{ToolSearch, ToolFinish}
	}
}
