package format

import (
	"testing"

	"github.com/rickchristie/researcher"
	"github.com/stretchr/testify/assert"
)

func TestReAct_Parse(t *testing.T) {
	type input struct {
		output string
	}

	type expected struct {
		sections map[string][]string
		err      error
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "action continuing the dangling thought",
			input: input{
				output: " I need to multiply the numbers.\nAction: Calculator\nAction Input: 12 * 7",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"I need to multiply the numbers."},
					"action":       {"Calculator"},
					"action input": {"12 * 7"},
				},
			},
		},
		{
			name: "final answer",
			input: input{
				output: " I now know the final answer\nFinal Answer: 12 times 7 is 84.",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"I now know the final answer"},
					"final answer": {"12 times 7 is 84."},
				},
			},
		},
		{
			name: "explicit thought label and multi-line answer",
			input: input{
				output: "Thought: done\nFinal Answer: line one\nline two",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"done"},
					"final answer": {"line one\nline two"},
				},
			},
		},
		{
			name: "numbered and lower-case labels",
			input: input{
				output: "action 1: Search\naction input 1: go release date",
			},
			expected: expected{
				sections: map[string][]string{
					"action":       {"Search"},
					"action input": {"go release date"},
				},
			},
		},
		{
			name: "empty action input is kept",
			input: input{
				output: " hmm\nAction: Search\nAction Input:",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"hmm"},
					"action":       {"Search"},
					"action input": {""},
				},
			},
		},
		{
			name: "final answer after a thought on the same line",
			input: input{
				output: " I now know the final answer. Final Answer: 84",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"I now know the final answer."},
					"final answer": {"84"},
				},
			},
		},
		{
			name: "action after a thought on the same line",
			input: input{
				output: " I should multiply. Action: Calculator\nAction Input: 12 * 7",
			},
			expected: expected{
				sections: map[string][]string{
					"thought":      {"I should multiply."},
					"action":       {"Calculator"},
					"action input": {"12 * 7"},
				},
			},
		},
		{
			name: "label must start a word",
			input: input{
				output: "Chain reaction: unclear",
			},
			expected: expected{
				err: researcher.ErrNoSectionsFound,
			},
		},
		{
			name: "no labels",
			input: input{
				output: "I am not sure what to do.",
			},
			expected: expected{
				err: researcher.ErrNoSectionsFound,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewReAct()
			sections, err := f.Parse(nil, tt.input.output)

			assert.ErrorIs(t, err, tt.expected.err)
			if tt.expected.err == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected.sections, sections)
		})
	}
}

func TestReAct_ParseWithContext(t *testing.T) {
	f := NewReAct()
	execCtx := researcher.NewExecutionContext(t.Context(), "test", nil)

	_, err := f.Parse(execCtx, "no labels here")
	assert.ErrorIs(t, err, researcher.ErrNoSectionsFound)
	assert.Equal(t, int64(1), execCtx.Stats().GetCounter(researcher.KeyFormatParseErrorTotal))
	assert.Equal(t, int64(1), execCtx.Stats().GetCounter(researcher.KeyFormatParseErrorConsecutive))

	events := execCtx.Events()
	if assert.Len(t, events, 1) {
		pe, ok := events[0].(*researcher.ParseErrorEvent)
		assert.True(t, ok)
		assert.Equal(t, researcher.ParseErrorTypeFormat, pe.ErrorType)
		assert.Equal(t, "no labels here", pe.RawContent)
	}

	_, err = f.Parse(execCtx, "Final Answer: ok")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), execCtx.Stats().GetCounter(researcher.KeyFormatParseErrorTotal))
	assert.Equal(t, int64(0), execCtx.Stats().GetCounter(researcher.KeyFormatParseErrorConsecutive))
}

func TestReAct_FormatSection(t *testing.T) {
	f := NewReAct()
	assert.Equal(t, "Observation: 84", f.FormatSection(LabelObservation, "84"))
}

func TestReAct_RegisterLabel(t *testing.T) {
	f := NewReAct().RegisterLabel("Action").RegisterLabel("Critique")

	sections, err := f.Parse(nil, "Critique: too vague\nFinal Answer: 42")
	assert.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"critique":     {"too vague"},
		"final answer": {"42"},
	}, sections)
}
