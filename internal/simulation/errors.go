package simulation

import (
	"errors"
	"fmt"
)

// errEmptyCompletion is the cause recorded when the service answered with no content.
var errEmptyCompletion = errors.New("completion service returned empty content")

// GenerationError means the completion service failed or produced nothing usable.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedReportError means the structured report did not match the
// required shape. No partial report accompanies it.
type MalformedReportError struct {
	Reason string
	Err    error
}

func (e *MalformedReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed session report: %s: %v", e.Reason, e.Err)
	}
	return "malformed session report: " + e.Reason
}

func (e *MalformedReportError) Unwrap() error { return e.Err }
