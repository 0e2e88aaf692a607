package hooks

import (
	"github.com/rickchristie/researcher"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// Hooks can implement any combination of hook interfaces. They only receive events for
// the interfaces they implement, in registration order.
//
// # Thread Safety
//
// Registry is NOT safe for concurrent registration. Register all hooks before starting
// execution. Dispatch may be called from any number of executions at once.
type Registry struct {
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry. Returns the registry for chaining.
func (r *Registry) Register(hook any) *Registry {
	r.hooks = append(r.hooks, hook)
	return r
}

// Dispatch sends an event to all matching hooks.
// Called by ExecutionContext.Publish after recording the event.
func (r *Registry) Dispatch(execCtx *researcher.ExecutionContext, event researcher.Event) {
	switch e := event.(type) {
	case *researcher.BeforeExecutionEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.BeforeExecutionHook); ok {
				hook.OnBeforeExecution(execCtx, e)
			}
		}
	case *researcher.AfterExecutionEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.AfterExecutionHook); ok {
				hook.OnAfterExecution(execCtx, e)
			}
		}
	case *researcher.BeforeIterationEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.BeforeIterationHook); ok {
				hook.OnBeforeIteration(execCtx, e)
			}
		}
	case *researcher.AfterIterationEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.AfterIterationHook); ok {
				hook.OnAfterIteration(execCtx, e)
			}
		}
	case *researcher.BeforeModelCallEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.BeforeModelCallHook); ok {
				hook.OnBeforeModelCall(execCtx, e)
			}
		}
	case *researcher.AfterModelCallEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.AfterModelCallHook); ok {
				hook.OnAfterModelCall(execCtx, e)
			}
		}
	case *researcher.BeforeToolCallEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.BeforeToolCallHook); ok {
				hook.OnBeforeToolCall(execCtx, e)
			}
		}
	case *researcher.AfterToolCallEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.AfterToolCallHook); ok {
				hook.OnAfterToolCall(execCtx, e)
			}
		}
	case *researcher.ParseErrorEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.ParseErrorHook); ok {
				hook.OnParseError(execCtx, e)
			}
		}
	case *researcher.LimitExceededEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.LimitExceededHook); ok {
				hook.OnLimitExceeded(execCtx, e)
			}
		}
	case *researcher.ErrorEvent:
		for _, h := range r.hooks {
			if hook, ok := h.(researcher.ErrorHook); ok {
				hook.OnError(execCtx, e)
			}
		}
	}
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}

var _ researcher.HookDispatcher = (*Registry)(nil)
