package researcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Messages(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		input    error
		expected string
	}{
		{
			name:     "initialization",
			input:    &InitializationError{Err: cause},
			expected: "failed to initialize the agent: connection refused",
		},
		{
			name:     "unknown tool",
			input:    &UnknownToolError{Name: "Wikipedia", Available: []string{"Search", "Calculator"}},
			expected: "Wikipedia is not a valid tool, try one of [Search, Calculator].",
		},
		{
			name:     "network with url",
			input:    &NetworkError{Op: "search", URL: "https://lite.duckduckgo.com/lite/", Err: cause},
			expected: "search https://lite.duckduckgo.com/lite/: connection refused",
		},
		{
			name:     "network without url",
			input:    &NetworkError{Op: "search", Err: cause},
			expected: "search: connection refused",
		},
		{
			name:     "evaluation",
			input:    &EvaluationError{Expression: "1 / x", Err: cause},
			expected: `failed to evaluate "1 / x": connection refused`,
		},
		{
			name:     "turn",
			input:    &TurnError{Err: cause},
			expected: "An error occurred: connection refused. Please try again.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualError(t, tc.input, tc.expected)
		})
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("root cause")

	for _, err := range []error{
		&InitializationError{Err: cause},
		&NetworkError{Op: "search", Err: cause},
		&EvaluationError{Expression: "x", Err: cause},
		&TurnError{Err: &NetworkError{Op: "search", Err: cause}},
	} {
		assert.ErrorIs(t, err, cause)
	}
}

func TestParseError_Observation(t *testing.T) {
	tests := []struct {
		name     string
		input    *ParseError
		expected string
	}{
		{
			name:     "specific reason is shown to the model",
			input:    &ParseError{Reason: "Invalid Format: Missing 'Action:' after 'Thought:'", SendToModel: true},
			expected: "Invalid Format: Missing 'Action:' after 'Thought:'",
		},
		{
			name:     "generic observation otherwise",
			input:    &ParseError{Reason: "both a final answer and an action"},
			expected: "Invalid or incomplete response",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.Observation())
		})
	}
}
