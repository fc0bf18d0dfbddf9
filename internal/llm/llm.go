package llm

import (
	"context"
	"errors"
)

// Answerer answers a question strictly from the supplied document text.
type Answerer interface {
	Answer(ctx context.Context, question, documentText string) (string, error)
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("llm response empty")
