package calculator

import (
	"errors"
	"testing"

	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "multiplication", input: "12 * 7", expected: "84"},
		{name: "no spaces", input: "12*7", expected: "84"},
		{name: "quoted", input: `"12 * 7"`, expected: "84"},
		{name: "unicode times", input: "12 × 7", expected: "84"},
		{name: "fractional division", input: "10 / 4", expected: "2.5"},
		{name: "whole division", input: "84 / 1", expected: "84"},
		{name: "parentheses", input: "(3 + 4.5) / 3", expected: "2.5"},
		{name: "caret exponent", input: "2 ^ 10", expected: "1024"},
		{name: "double star exponent", input: "2 ** 3", expected: "8"},
		{name: "modulo", input: "7 % 3", expected: "1"},
		{name: "negative", input: "-5 + 2", expected: "-3"},
		{name: "sqrt", input: "sqrt(2.25)", expected: "1.5"},
		{name: "builtin abs", input: "abs(-4)", expected: "4"},
		{name: "negative modulo", input: "-7 % 3", expected: "-1"},
		{name: "fractional modulo", input: "7.5 % 2", expected: "1.5"},
		{name: "past max int64", input: "9223372036854775807 + 1", expected: "9223372036854775808"},
		{name: "product past int64", input: "99999999999 * 99999999999", expected: "9999999999800000000000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		notANumber bool
	}{
		{name: "empty", input: "  "},
		{name: "dangling operator", input: "12 *"},
		{name: "words", input: "twelve times seven"},
		{name: "boolean result", input: "1 < 2", notANumber: true},
		{name: "division by zero", input: "1 / 0", notANumber: true},
		{name: "modulo by zero", input: "7 % 0", notANumber: true},
		{name: "past float range", input: "10 ^ 400", notANumber: true},
		{name: "literal past int64", input: "99999999999999999999 + 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.input)
			assert.Empty(t, got)

			var evalErr *researcher.EvaluationError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, tc.input, evalErr.Expression)
			assert.Equal(t, tc.notANumber, errors.Is(err, ErrNotANumber))
		})
	}
}

func TestTool_Call(t *testing.T) {
	type input struct {
		expression string
		responses  []string
		modelErr   error
		withModel  bool
	}

	type expected struct {
		output     string
		err        bool
		modelCalls int
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "plain expression never calls the model",
			input:    input{expression: "12 * 7", withModel: true},
			expected: expected{output: "84"},
		},
		{
			name:     "word problem without model fails",
			input:    input{expression: "twelve times seven"},
			expected: expected{err: true},
		},
		{
			name: "word problem translated to expression",
			input: input{
				expression: "twelve times seven",
				responses:  []string{"```text\n12 * 7\n```\n"},
				withModel:  true,
			},
			expected: expected{output: "84", modelCalls: 1},
		},
		{
			name: "model answers directly",
			input: input{
				expression: "the answer to everything",
				responses:  []string{"Answer: 42"},
				withModel:  true,
			},
			expected: expected{output: "42", modelCalls: 1},
		},
		{
			name: "unusable translation",
			input: input{
				expression: "a lot",
				responses:  []string{"I cannot help with that."},
				withModel:  true,
			},
			expected: expected{err: true, modelCalls: 1},
		},
		{
			name: "model failure",
			input: input{
				expression: "a lot",
				modelErr:   errors.New("rate limited"),
				withModel:  true,
			},
			expected: expected{err: true, modelCalls: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := tt.NewMockModel().AddResponses(tc.input.responses...)
			if tc.input.modelErr != nil {
				model.AddError(tc.input.modelErr)
			}
			tool := New()
			if tc.input.withModel {
				tool.WithModel(model)
			}

			got, err := tool.Call(t.Context(), tc.input.expression)
			if tc.expected.err {
				var evalErr *researcher.EvaluationError
				assert.ErrorAs(t, err, &evalErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected.output, got)
			assert.Equal(t, tc.expected.modelCalls, model.CallCount())
		})
	}
}

type recordingDispatcher struct {
	names      []string
	executions []string
}

func (d *recordingDispatcher) Dispatch(execCtx *researcher.ExecutionContext, event researcher.Event) {
	d.names = append(d.names, event.EventName())
	d.executions = append(d.executions, execCtx.Name())
}

func TestTool_TranslationDispatchesModelEvents(t *testing.T) {
	model := tt.NewMockModel().AddResponses("```text\n12 * 7\n```\n")
	hooks := &recordingDispatcher{}
	tool := New().WithModel(model).WithHooks(hooks)

	got, err := tool.Call(t.Context(), "twelve times seven")
	require.NoError(t, err)
	assert.Equal(t, "84", got)

	assert.Equal(t, []string{
		researcher.EventNameModelCallBefore,
		researcher.EventNameModelCallAfter,
	}, hooks.names)
	assert.Equal(t, []string{"calculator-translate", "calculator-translate"}, hooks.executions)
}

func TestTool_Metadata(t *testing.T) {
	tool := New()
	assert.Equal(t, "Calculator", tool.Name())
	assert.Contains(t, tool.Description(), "math")
	assert.Equal(t, "Math", tool.WithName("Math").Name())
}
