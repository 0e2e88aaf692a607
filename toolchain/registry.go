package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/researcher"
)

// Registry is the closed tool chain. It holds exactly one tool per [researcher.ToolKind]
// and is immutable after construction, so a session can share it across turns.
type Registry struct {
	tools  map[researcher.ToolKind]researcher.Tool
	byName map[string]researcher.ToolKind
}

// NewRegistry builds the registry from the search and math tools.
// Names are matched case-insensitively and must be distinct.
func NewRegistry(search, math researcher.Tool) (*Registry, error) {
	if search == nil || math == nil {
		return nil, errors.New("toolchain: search and math tools are both required")
	}

	r := &Registry{
		tools: map[researcher.ToolKind]researcher.Tool{
			researcher.ToolSearch: search,
			researcher.ToolMath:   math,
		},
		byName: make(map[string]researcher.ToolKind, 2),
	}
	for _, kind := range researcher.ToolKinds {
		key := strings.ToLower(strings.TrimSpace(r.tools[kind].Name()))
		if key == "" {
			return nil, fmt.Errorf("toolchain: %s tool has an empty name", kind)
		}
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("toolchain: duplicate tool name %q", r.tools[kind].Name())
		}
		r.byName[key] = kind
	}
	return r, nil
}

// Lookup resolves a tool name to its kind.
func (r *Registry) Lookup(name string) (researcher.ToolKind, bool) {
	kind, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return kind, ok
}

// Tool returns the tool bound to kind.
func (r *Registry) Tool(kind researcher.ToolKind) researcher.Tool {
	return r.tools[kind]
}

// Names returns the tool names in prompt order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(researcher.ToolKinds))
	for _, kind := range researcher.ToolKinds {
		names = append(names, r.tools[kind].Name())
	}
	return names
}

// AvailableToolsPrompt renders one "name: description" line per tool.
func (r *Registry) AvailableToolsPrompt() string {
	lines := make([]string, 0, len(researcher.ToolKinds))
	for _, kind := range researcher.ToolKinds {
		t := r.tools[kind]
		lines = append(lines, t.Name()+": "+t.Description())
	}
	return strings.Join(lines, "\n")
}

// ToolNames returns the tool names joined by ", ".
func (r *Registry) ToolNames() string {
	return strings.Join(r.Names(), ", ")
}

// Execute resolves call.Name and runs the tool with call.Input.
func (r *Registry) Execute(
	execCtx *researcher.ExecutionContext,
	call researcher.ToolCall,
) (*researcher.ToolChainResult, error) {
	kind, ok := r.Lookup(call.Name)
	if !ok {
		if execCtx != nil {
			execCtx.Stats().IncrCounter(researcher.KeyUnknownToolTotal, 1)
		}
		return nil, &researcher.UnknownToolError{Name: call.Name, Available: r.Names()}
	}

	tool := r.tools[kind]
	name := tool.Name()

	if execCtx != nil {
		execCtx.PublishBeforeToolCall(name, call.Input)
	}

	ctx := contextOf(execCtx)
	start := time.Now()
	output, err := tool.Call(ctx, call.Input)
	duration := time.Since(start)

	if execCtx != nil {
		execCtx.PublishAfterToolCall(name, call.Input, output, duration, err)
	}

	result := &researcher.ToolChainResult{Kind: kind, Observation: output, Err: err}
	if err != nil {
		result.Observation = "Error: " + err.Error()
	}
	return result, nil
}

func contextOf(execCtx *researcher.ExecutionContext) context.Context {
	if execCtx == nil {
		return context.Background()
	}
	return execCtx.Context()
}

var _ researcher.ToolChain = (*Registry)(nil)
