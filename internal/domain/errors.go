package domain

import "errors"

var (
	// ErrNoCorpus signals that no processed corpus file is available.
	ErrNoCorpus = errors.New("no processed corpus found")
	// ErrEmptyQuery signals a blank user question.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrRunNotFound signals a missing recorded run.
	ErrRunNotFound = errors.New("run not found")
	// ErrModelUnavailable signals a language model transport failure.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrRecorderFailure signals that a finished run could not be persisted.
	ErrRecorderFailure = errors.New("run recorder failure")
)
