// Package toolchain dispatches ReAct actions to the closed set of tools.
//
// # Overview
//
// The agent knows exactly two tool kinds, [researcher.ToolSearch] and
// [researcher.ToolMath]. [Registry] binds one concrete tool to each kind and resolves the
// name written after "Action:" through an explicit table:
//
//	reg, err := toolchain.NewRegistry(searchTool, mathTool)
//	result, err := reg.Execute(execCtx, researcher.ToolCall{Name: "Calculator", Input: "12*7"})
//
// Tool failures do not surface as errors from Execute. They are rendered into the
// observation ("Error: ...") so the model can react to them on the next iteration. The
// only error Execute returns is [*researcher.UnknownToolError].
//
// # Events
//
// Execute publishes BeforeToolCall and AfterToolCall events on the ExecutionContext,
// which keeps the per-tool call counters and the error counters current.
package toolchain
