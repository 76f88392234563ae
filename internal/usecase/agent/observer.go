package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/kalder-cloud/reagent/internal/domain"
)

// Observer receives callbacks at the loop's well-defined points. There is
// no process-wide logging state in the loop itself; callers inject whatever
// observer they need.
type Observer interface {
	PromptBuilt(ctx context.Context, step int, prompt string)
	StepCompleted(ctx context.Context, step int, s domain.Step)
	RunTerminated(ctx context.Context, query string, result domain.Result)
}

// NopObserver discards all callbacks.
type NopObserver struct{}

func (NopObserver) PromptBuilt(context.Context, int, string)             {}
func (NopObserver) StepCompleted(context.Context, int, domain.Step)      {}
func (NopObserver) RunTerminated(context.Context, string, domain.Result) {}

// LogObserver logs loop progress through zap. With verbose set, full prompts
// and observations are logged at info level; otherwise at debug.
type LogObserver struct {
	logger  *zap.Logger
	verbose bool
}

// NewLogObserver creates a zap-backed observer.
func NewLogObserver(logger *zap.Logger, verbose bool) *LogObserver {
	return &LogObserver{logger: logger, verbose: verbose}
}

func (o *LogObserver) level() func(string, ...zap.Field) {
	if o.verbose {
		return o.logger.Info
	}
	return o.logger.Debug
}

// PromptBuilt logs the assembled prompt for a step.
func (o *LogObserver) PromptBuilt(_ context.Context, step int, prompt string) {
	o.level()("prompt built",
		zap.Int("step", step),
		zap.Int("prompt_len", len(prompt)),
	)
}

// StepCompleted logs one finalized trajectory step.
func (o *LogObserver) StepCompleted(_ context.Context, step int, s domain.Step) {
	o.level()("step completed",
		zap.Int("step", step),
		zap.String("thought", s.Thought),
		zap.String("action", s.Action),
		zap.String("observation", s.Observation),
	)
}

// RunTerminated logs the terminal transition of a run.
func (o *LogObserver) RunTerminated(_ context.Context, query string, result domain.Result) {
	o.logger.Info("run terminated",
		zap.String("query", query),
		zap.Int("steps", len(result.Trajectory)),
		zap.Int("answer_len", len(result.Answer)),
	)
}
