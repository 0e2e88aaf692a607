package researcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolFunc(t *testing.T) {
	tool := NewToolFunc("Upper", "Uppercases the input.", func(_ context.Context, input string) (string, error) {
		if input == "" {
			return "", errors.New("empty input")
		}
		return strings.ToUpper(input), nil
	})

	assert.Equal(t, "Upper", tool.Name())
	assert.Equal(t, "Uppercases the input.", tool.Description())

	out, err := tool.Call(context.Background(), "lisbon")
	assert.NoError(t, err)
	assert.Equal(t, "LISBON", out)

	_, err = tool.Call(context.Background(), "")
	assert.EqualError(t, err, "empty input")
}

func TestToolKind_String(t *testing.T) {
	tests := []struct {
		input    ToolKind
		expected string
	}{
		{input: ToolSearch, expected: "search"},
		{input: ToolMath, expected: "math"},
		{input: ToolKind(0), expected: "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.input.String())
		})
	}
	assert.Equal(t, []ToolKind{ToolSearch, ToolMath}, ToolKinds)
}
