package health

import "context"

// StorePinger checks run store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks language model provider availability.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusInfo reports on the loaded corpus.
type CorpusInfo interface {
	CorpusSize() int
}
