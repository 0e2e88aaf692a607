package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *tt.MockTool, *tt.MockTool) {
	t.Helper()
	search := tt.NewMockTool("Search", "Lisbon is sunny").WithDescription("look things up")
	calc := tt.NewMockToolFunc("Calculator", func(_ context.Context, input string) (string, error) {
		if input == "1/0" {
			return "", &researcher.EvaluationError{Expression: input, Err: errors.New("division by zero")}
		}
		return "84", nil
	}).WithDescription("do math")

	reg, err := NewRegistry(search, calc)
	require.NoError(t, err)
	return reg, search, calc
}

func TestNewRegistry_Errors(t *testing.T) {
	type input struct {
		search researcher.Tool
		math   researcher.Tool
	}

	tests := []struct {
		name  string
		input input
	}{
		{
			name:  "missing math tool",
			input: input{search: tt.NewMockTool("Search", "")},
		},
		{
			name:  "duplicate names",
			input: input{search: tt.NewMockTool("Search", ""), math: tt.NewMockTool("search", "")},
		},
		{
			name:  "empty name",
			input: input{search: tt.NewMockTool(" ", ""), math: tt.NewMockTool("Calculator", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.input.search, tt.input.math)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Prompts(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	assert.Equal(t, "Search: look things up\nCalculator: do math", reg.AvailableToolsPrompt())
	assert.Equal(t, "Search, Calculator", reg.ToolNames())
	assert.Equal(t, []string{"Search", "Calculator"}, reg.Names())
}

func TestRegistry_Lookup(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	tests := []struct {
		name     string
		input    string
		expected researcher.ToolKind
		found    bool
	}{
		{name: "exact", input: "Search", expected: researcher.ToolSearch, found: true},
		{name: "case insensitive", input: "calculator", expected: researcher.ToolMath, found: true},
		{name: "surrounding space", input: "  Calculator ", expected: researcher.ToolMath, found: true},
		{name: "unknown", input: "Wikipedia", found: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, ok := reg.Lookup(tc.input)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, kind)
		})
	}
}

func TestRegistry_Execute(t *testing.T) {
	type expected struct {
		kind        researcher.ToolKind
		observation string
		toolErr     bool
		errorTotal  int64
	}

	tests := []struct {
		name     string
		input    researcher.ToolCall
		expected expected
	}{
		{
			name:  "calculator",
			input: researcher.ToolCall{Name: "Calculator", Input: "12 * 7"},
			expected: expected{
				kind:        researcher.ToolMath,
				observation: "84",
			},
		},
		{
			name:  "search",
			input: researcher.ToolCall{Name: "search", Input: "weather in Lisbon"},
			expected: expected{
				kind:        researcher.ToolSearch,
				observation: "Lisbon is sunny",
			},
		},
		{
			name:  "tool error becomes observation",
			input: researcher.ToolCall{Name: "Calculator", Input: "1/0"},
			expected: expected{
				kind:        researcher.ToolMath,
				observation: `Error: failed to evaluate "1/0": division by zero`,
				toolErr:     true,
				errorTotal:  1,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg, _, _ := newTestRegistry(t)
			execCtx := researcher.NewExecutionContext(t.Context(), "test", nil)
			defer execCtx.Close()

			result, err := reg.Execute(execCtx, tc.input)
			require.NoError(t, err)

			assert.Equal(t, tc.expected.kind, result.Kind)
			assert.Equal(t, tc.expected.observation, result.Observation)
			assert.Equal(t, tc.expected.toolErr, result.Err != nil)

			stats := execCtx.Stats()
			assert.Equal(t, int64(1), stats.GetCounter(researcher.KeyToolCalls))
			assert.Equal(t, tc.expected.errorTotal, stats.GetCounter(researcher.KeyToolCallsErrorTotal))
			assert.Equal(t, []string{
				researcher.EventNameToolCallBefore,
				researcher.EventNameToolCallAfter,
			}, tt.EventNames(execCtx))
		})
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	reg, search, calc := newTestRegistry(t)
	execCtx := researcher.NewExecutionContext(t.Context(), "test", nil)
	defer execCtx.Close()

	result, err := reg.Execute(execCtx, researcher.ToolCall{Name: "Wikipedia", Input: "go"})
	assert.Nil(t, result)

	var unknown *researcher.UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Wikipedia is not a valid tool, try one of [Search, Calculator].", unknown.Observation())

	assert.Equal(t, 0, search.CallCount())
	assert.Equal(t, 0, calc.CallCount())
	assert.Equal(t, int64(1), execCtx.Stats().GetCounter(researcher.KeyUnknownToolTotal))
	assert.Empty(t, execCtx.Events())
}
