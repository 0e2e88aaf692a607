package researcher

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredential is returned when no usable credential was supplied. It blocks the
// reasoning capability but is never fatal to the process.
var ErrMissingCredential = errors.New("researcher: missing credential")

// ErrLimitExceeded is wrapped by execution errors caused by a limit other than the
// iteration cap.
var ErrLimitExceeded = errors.New("researcher: limit exceeded")

// InitializationError is returned when the agent cannot be constructed from a credential
// (bad model configuration, client construction failure).
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize the agent: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// UnknownToolError is returned when the model names a tool outside the registry.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("%s is not a valid tool, try one of [%s].",
		e.Name, strings.Join(e.Available, ", "))
}

// Observation is the corrective text fed back to the model.
func (e *UnknownToolError) Observation() string {
	return e.Error()
}

// ParseError is returned when model output is neither a final answer nor an action.
type ParseError struct {
	// Output is the raw model output.
	Output string

	// Reason describes what was wrong.
	Reason string

	// SendToModel is true when Reason is specific enough to show to the model. Otherwise
	// the corrective observation is generic.
	SendToModel bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse model output: %s", e.Reason)
}

// Observation is the corrective text fed back to the model when parse errors are tolerated.
func (e *ParseError) Observation() string {
	if e.SendToModel {
		return e.Reason
	}
	return "Invalid or incomplete response"
}

// NetworkError is returned by tools that reach the network.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// EvaluationError is returned by the math tool for malformed or non-numeric expressions.
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// TurnError wraps anything that escaped a single chat turn. It is rendered inline in the
// transcript and never ends the session.
type TurnError struct {
	Err error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("An error occurred: %v. Please try again.", e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}
