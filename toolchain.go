package researcher

// ToolCall represents a parsed "Action:" / "Action Input:" pair from model output.
type ToolCall struct {
	Name  string
	Input string
}

// ToolChainResult is the result of dispatching one tool call.
type ToolChainResult struct {
	// Kind is the resolved tool kind.
	Kind ToolKind

	// Observation is the text fed back to the model. When the tool failed this holds the
	// rendered error, so the loop can carry on.
	Observation string

	// Err is the tool's own error, kept for programmatic access. It is never returned from
	// Execute, because tool failures are observations rather than loop failures.
	Err error
}

// ToolChain manages the closed tool set.
//
// # Responsibilities
//
//   - AvailableToolsPrompt: "name: description" catalog placed in the prompt
//   - ToolNames: the comma separated list used in "Action: ... one of [...]"
//   - Execute: resolve the name, call the tool, publish events, render the observation
//
// # Event Publishing Requirements
//
// Execute MUST publish tool call events for stats tracking and hooks:
//
//	execCtx.PublishBeforeToolCall(name, input)
//	output, err := tool.Call(execCtx.Context(), input)
//	execCtx.PublishAfterToolCall(name, input, output, duration, err)
//
// Execute returns an error only when the tool name cannot be resolved
// ([*UnknownToolError]). The agent loop decides whether that is recoverable.
type ToolChain interface {
	// AvailableToolsPrompt returns the tool catalog.
	AvailableToolsPrompt() string

	// ToolNames returns tool names joined by ", ".
	ToolNames() string

	// Execute dispatches the call.
	Execute(execCtx *ExecutionContext, call ToolCall) (*ToolChainResult, error)
}
