package agent

import (
	"context"

	"github.com/kalder-cloud/reagent/internal/domain"
)

// Completer obtains a raw completion from the language model for a prompt.
// Any returned text is legal; the output parser tolerates missing markers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Searcher ranks corpus documents against a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) []domain.SearchResult
}

// Recorder persists a finished run.
type Recorder interface {
	Save(ctx context.Context, run domain.AgentRun) error
}
