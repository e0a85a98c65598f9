package pipeline

import "fmt"

// InvalidInputError marks a semantically invalid sensor value, e.g. a CO2
// reading the BoxCox transform is undefined for. Surfaced as a client error.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	_, ok := target.(*InvalidInputError)
	return ok
}

// PipelineError wraps a transform stage failure. The whole transform is
// aborted, no partial feature vectors are returned.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func (e *PipelineError) Is(target error) bool {
	_, ok := target.(*PipelineError)
	return ok
}
