package researcher

import (
	"context"
)

// ToolKind identifies one member of the closed tool set. The agent only ever knows about
// the kinds declared here; the tool chain maps names to kinds through an explicit table.
type ToolKind int

const (
	ToolSearch ToolKind = iota + 1
	ToolMath
)

// ToolKinds lists every kind in prompt order.
var ToolKinds = []ToolKind{ToolSearch, ToolMath}

func (k ToolKind) String() string {
	switch k {
	case ToolSearch:
		return "search"
	case ToolMath:
		return "math"
	default:
		return "unknown"
	}
}

// Tool is a single text-in, text-out capability.
//
// Responsibility design:
//   - Tool: accept the action input, run the capability, return the observation text.
//   - ToolChain: describe tools in the prompt, resolve names, dispatch, publish events.
//
// A returned error is not fatal to the loop. The tool chain renders it as the observation.
type Tool interface {
	// Name returns the tool's identifier used after "Action:".
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Call executes the tool with the raw action input.
	Call(ctx context.Context, input string) (string, error)
}

// ToolFunc is a convenience type for creating tools from functions.
type ToolFunc struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)
}

// NewToolFunc creates a new ToolFunc.
func NewToolFunc(
	name, description string,
	fn func(ctx context.Context, input string) (string, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns a human-readable description for the model.
func (t *ToolFunc) Description() string {
	return t.description
}

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, input string) (string, error) {
	return t.fn(ctx, input)
}

var _ Tool = (*ToolFunc)(nil)
