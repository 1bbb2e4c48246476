package pipeline

import (
	"context"
	"errors"

	"flowlist/internal/classify"
	"flowlist/internal/ingest"
	"flowlist/internal/services/llm"
)

// Status is the outcome class of an ingest run.
type Status string

const (
	StatusComplete         Status = "complete"
	StatusNothingNew       Status = "nothing_new"
	StatusImported         Status = "imported"
	StatusEmptyInput       Status = "empty_input"
	StatusNotConfigured    Status = "not_configured"
	StatusRetriesExhausted Status = "retries_exhausted"
	StatusUnparseable      Status = "unparseable"
	StatusCanceled         Status = "canceled"
	StatusFailed           Status = "failed"
)

// Failed reports whether the status ends a run with an error.
func (s Status) Failed() bool {
	switch s {
	case StatusComplete, StatusNothingNew, StatusImported:
		return false
	default:
		return true
	}
}

// StatusFor classifies err. A nil error is StatusComplete.
func StatusFor(err error) Status {
	switch {
	case err == nil:
		return StatusComplete
	case errors.Is(err, ingest.ErrEmptyInput):
		return StatusEmptyInput
	case errors.Is(err, llm.ErrNotConfigured):
		return StatusNotConfigured
	case errors.Is(err, llm.ErrMaxRetries):
		return StatusRetriesExhausted
	case errors.Is(err, classify.ErrUnparseable):
		return StatusUnparseable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusFailed
	}
}

// Message returns a short user-facing description of the status.
func (s Status) Message() string {
	switch s {
	case StatusComplete:
		return "all batches classified"
	case StatusNothingNew:
		return "nothing new to classify"
	case StatusImported:
		return "archive imported"
	case StatusEmptyInput:
		return "input is empty"
	case StatusNotConfigured:
		return "service not configured"
	case StatusRetriesExhausted:
		return "max retries exceeded"
	case StatusUnparseable:
		return "the response could not be understood"
	case StatusCanceled:
		return "canceled"
	default:
		return "failed"
	}
}
