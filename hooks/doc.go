// Package hooks provides a registry for execution lifecycle hooks and the verbose
// tracing hook.
//
// Hooks observe events published on a [researcher.ExecutionContext]. Each hook interface
// corresponds to one event type, so implement only the interfaces you need.
//
// # Hook Interfaces
//
// Executor lifecycle hooks:
//   - [researcher.BeforeExecutionHook] - Called once before first iteration
//   - [researcher.AfterExecutionHook] - Called once after execution ends
//   - [researcher.BeforeIterationHook] - Called before each iteration
//   - [researcher.AfterIterationHook] - Called after each iteration
//   - [researcher.ErrorHook] - Called when the loop fails
//
// Model and tool hooks:
//   - [researcher.BeforeModelCallHook], [researcher.AfterModelCallHook]
//   - [researcher.BeforeToolCallHook], [researcher.AfterToolCallHook]
//
// Parsing and limits:
//   - [researcher.ParseErrorHook] - Called when model output cannot be parsed
//   - [researcher.LimitExceededHook] - Called when a limit is crossed
//
// # Creating a Hook
//
//	type ToolTimer struct{}
//
//	func (h *ToolTimer) OnAfterToolCall(
//	    execCtx *researcher.ExecutionContext,
//	    event *researcher.AfterToolCallEvent,
//	) {
//	    slog.Info("tool call", "tool", event.ToolName, "duration", event.Duration)
//	}
//
//	registry := hooks.NewRegistry().Register(&ToolTimer{})
//	exec := executor.New(loop).WithHooks(registry)
package hooks
