package termination

import (
	"testing"

	"github.com/rickchristie/researcher"
	"github.com/stretchr/testify/assert"
)

func TestText_Name(t *testing.T) {
	assert.Equal(t, "Final Answer", NewText(DefaultSectionName).Name())
	assert.Equal(t, "Result", NewText("Result").Name())
}

func TestText_ParseSection(t *testing.T) {
	term := NewText(DefaultSectionName)

	got, err := term.ParseSection(nil, "  84 \n")
	assert.NoError(t, err)
	assert.Equal(t, "84", got)
}

func TestText_ShouldTerminate(t *testing.T) {
	type input struct {
		content string
	}

	type expected struct {
		result *researcher.TerminationResult
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:  "non-empty content is accepted",
			input: input{content: "12 times 7 is 84."},
			expected: expected{
				result: &researcher.TerminationResult{
					Status:  researcher.TerminationAnswerAccepted,
					Content: "12 times 7 is 84.",
				},
			},
		},
		{
			name:  "content is trimmed",
			input: input{content: "\n  Lisbon  \n"},
			expected: expected{
				result: &researcher.TerminationResult{
					Status:  researcher.TerminationAnswerAccepted,
					Content: "Lisbon",
				},
			},
		},
		{
			name:  "empty content continues",
			input: input{content: ""},
			expected: expected{
				result: &researcher.TerminationResult{Status: researcher.TerminationContinue},
			},
		},
		{
			name:  "whitespace only continues",
			input: input{content: " \n\t "},
			expected: expected{
				result: &researcher.TerminationResult{Status: researcher.TerminationContinue},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			execCtx := researcher.NewExecutionContext(t.Context(), "test", nil)
			defer execCtx.Close()

			term := NewText(DefaultSectionName)
			assert.Equal(t, tt.expected.result, term.ShouldTerminate(execCtx, tt.input.content))
		})
	}
}

func TestText_ShouldTerminateNilContext(t *testing.T) {
	assert.Panics(t, func() {
		NewText(DefaultSectionName).ShouldTerminate(nil, "answer")
	})
}
