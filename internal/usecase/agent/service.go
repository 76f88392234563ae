package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
	"github.com/kalder-cloud/reagent/internal/logger"
	"github.com/kalder-cloud/reagent/internal/metrics"
)

const (
	defaultSearchK = 3

	invalidActionObservation = `Invalid action format. Use: search[query="...", k=3] or finish[answer="..."]`
)

// Run outcome labels for metrics.
const (
	outcomeFinish   = "finish"
	outcomeMaxSteps = "max_steps"
)

// Service is the bounded ReAct control loop. One Run call processes exactly
// one query, step by step: build prompt, obtain completion, parse it into a
// tool call, dispatch, append the step, repeat until a finish call or step
// exhaustion. A Service is stateless between runs and safe for concurrent
// use; each run owns its trajectory exclusively.
type Service struct {
	completer Completer
	searcher  Searcher
	recorder  Recorder
	observer  Observer
	cfg       domain.AgentConfig
}

// New creates a control loop service.
func New(completer Completer, searcher Searcher, recorder Recorder, cfg domain.AgentConfig) *Service {
	cfg.ApplyDefaults()
	return &Service{
		completer: completer,
		searcher:  searcher,
		recorder:  recorder,
		observer:  NopObserver{},
		cfg:       cfg,
	}
}

// WithObserver installs a loop observer.
func (s *Service) WithObserver(o Observer) *Service {
	if o != nil {
		s.observer = o
	}
	return s
}

// Run executes the loop for one query and returns the terminal result.
// A model failure aborts the run without recording anything. A recorder
// failure is returned alongside the completed result: the answer is valid
// even though no durable trace of it exists.
func (s *Service) Run(ctx context.Context, query string) (domain.Result, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Result{}, domain.ErrEmptyQuery
	}

	log := logger.FromContext(ctx)
	trajectory := make(domain.Trajectory, 0, s.cfg.MaxSteps)

	for step := 0; step < s.cfg.MaxSteps; step++ {
		prompt := buildPrompt(query, trajectory)
		s.observer.PromptBuilt(ctx, step, prompt)

		out, err := s.completer.Complete(ctx, prompt)
		if err != nil {
			metrics.AgentRunsTotal.WithLabelValues("model_error").Inc()
			return domain.Result{}, fmt.Errorf("model completion at step %d: %w", step, err)
		}

		parsed := parseOutput(out)
		if parsed.noAction {
			log.Warn("no action in model output, forcing finish", zap.Int("step", step))
		}

		action, ok := parseAction(parsed.actionLine)
		if !ok {
			trajectory = s.appendStep(ctx, trajectory, step, parsed.thought, parsed.actionLine, invalidActionObservation)
			continue
		}
		if !s.toolAllowed(action) {
			obs := s.unknownToolObservation(toolName(action))
			trajectory = s.appendStep(ctx, trajectory, step, parsed.thought, parsed.actionLine, obs)
			continue
		}

		switch action.Kind {
		case domain.ActionSearch:
			results := s.searcher.Search(ctx, action.Query, action.K)
			payload, err := json.MarshalIndent(domain.Observation{Results: results}, "", "  ")
			if err != nil {
				return domain.Result{}, fmt.Errorf("encode observation: %w", err)
			}
			trajectory = s.appendStep(ctx, trajectory, step, parsed.thought, parsed.actionLine, string(payload))

		case domain.ActionFinish:
			trajectory = s.appendStep(ctx, trajectory, step, parsed.thought, parsed.actionLine, domain.ObservationDone)
			return s.terminate(ctx, query, domain.Result{Answer: action.Answer, Trajectory: trajectory}, outcomeFinish)

		case domain.ActionUnknown:
			obs := s.unknownToolObservation(action.Name)
			trajectory = s.appendStep(ctx, trajectory, step, parsed.thought, parsed.actionLine, obs)
		}
	}

	log.Warn("max steps reached without finish", zap.Int("max_steps", s.cfg.MaxSteps))
	result := domain.Result{Answer: fallbackAnswer(trajectory), Trajectory: trajectory}
	return s.terminate(ctx, query, result, outcomeMaxSteps)
}

// appendStep finalizes one step and notifies the observer. The next prompt
// is built only after this returns, which keeps step ordering strict.
func (s *Service) appendStep(
	ctx context.Context, trajectory domain.Trajectory, step int,
	thought, action, observation string,
) domain.Trajectory {
	st := domain.Step{Thought: thought, Action: action, Observation: observation}
	trajectory = append(trajectory, st)
	s.observer.StepCompleted(ctx, step, st)
	return trajectory
}

// terminate performs the single terminal transition: record metrics, notify
// the observer, and persist the run exactly once.
func (s *Service) terminate(
	ctx context.Context, query string, result domain.Result, outcome string,
) (domain.Result, error) {
	metrics.AgentRunsTotal.WithLabelValues(outcome).Inc()
	metrics.AgentStepsPerRun.Observe(float64(len(result.Trajectory)))

	s.observer.RunTerminated(ctx, query, result)

	run := domain.AgentRun{Query: query, Result: result}
	if err := s.recorder.Save(ctx, run); err != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrRecorderFailure, err)
	}
	return result, nil
}

// toolAllowed checks the parsed call against the configured tool set.
// Unknown variants pass through so they get the diagnostic observation.
func (s *Service) toolAllowed(action domain.Action) bool {
	if action.Kind == domain.ActionUnknown {
		return true
	}
	name := toolName(action)
	for _, t := range s.cfg.AllowedTools {
		if t == name {
			return true
		}
	}
	return false
}

func (s *Service) unknownToolObservation(name string) string {
	return fmt.Sprintf("Unknown tool: %s. Available tools: %s",
		name, strings.Join(s.cfg.AllowedTools, ", "))
}

func toolName(action domain.Action) string {
	switch action.Kind {
	case domain.ActionSearch:
		return domain.ToolSearch
	case domain.ActionFinish:
		return domain.ToolFinish
	default:
		return action.Name
	}
}
