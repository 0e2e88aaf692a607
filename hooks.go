package researcher

// -----------------------------------------------------------------------------
// Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe execution at various points. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry
//  3. Pass the registry to executor.New(...).WithHooks
//
// Hooks are called in registration order, synchronously, on the goroutine running the
// loop. Hooks do not return errors; a panicking hook propagates to the caller.

// HookDispatcher receives every event published on an ExecutionContext.
// hooks.Registry is the standard implementation.
type HookDispatcher interface {
	Dispatch(execCtx *ExecutionContext, event Event)
}

// BeforeExecutionHook is notified once before the first iteration.
type BeforeExecutionHook interface {
	OnBeforeExecution(execCtx *ExecutionContext, event *BeforeExecutionEvent)
}

// AfterExecutionHook is notified once after the loop terminates. It is always called if
// OnBeforeExecution was called, even on error.
type AfterExecutionHook interface {
	OnAfterExecution(execCtx *ExecutionContext, event *AfterExecutionEvent)
}

// BeforeIterationHook is notified before each AgentLoop.Next call.
type BeforeIterationHook interface {
	OnBeforeIteration(execCtx *ExecutionContext, event *BeforeIterationEvent)
}

// AfterIterationHook is notified after each successful AgentLoop.Next call.
type AfterIterationHook interface {
	OnAfterIteration(execCtx *ExecutionContext, event *AfterIterationEvent)
}

// BeforeModelCallHook is notified before each model call.
type BeforeModelCallHook interface {
	OnBeforeModelCall(execCtx *ExecutionContext, event *BeforeModelCallEvent)
}

// AfterModelCallHook is notified after each model call.
type AfterModelCallHook interface {
	OnAfterModelCall(execCtx *ExecutionContext, event *AfterModelCallEvent)
}

// BeforeToolCallHook is notified before each tool call.
type BeforeToolCallHook interface {
	OnBeforeToolCall(execCtx *ExecutionContext, event *BeforeToolCallEvent)
}

// AfterToolCallHook is notified after each tool call.
type AfterToolCallHook interface {
	OnAfterToolCall(execCtx *ExecutionContext, event *AfterToolCallEvent)
}

// ParseErrorHook is notified when model output cannot be parsed.
type ParseErrorHook interface {
	OnParseError(execCtx *ExecutionContext, event *ParseErrorEvent)
}

// LimitExceededHook is notified when a limit is crossed.
type LimitExceededHook interface {
	OnLimitExceeded(execCtx *ExecutionContext, event *LimitExceededEvent)
}

// ErrorHook is notified when the loop fails.
type ErrorHook interface {
	OnError(execCtx *ExecutionContext, event *ErrorEvent)
}
