package researcher

import (
	"context"
	"sync"
	"time"
)

// ExecutionContext is the ambient context passed through everything in the agent loop.
// It carries the Go context, the loop data, stats and limits, and the event log.
//
// All framework components (Model, ToolChain, TextFormat, hooks) receive the
// ExecutionContext, so events are recorded and dispatched without manual wiring.
type ExecutionContext struct {
	mu sync.RWMutex

	goCtx  context.Context
	cancel context.CancelFunc

	// Execution name (e.g. "chat", "math-translate")
	name string
	data LoopData

	// Current iteration, 1-indexed (0 before the first iteration)
	iteration int

	// Append-only event log
	events []Event
	hooks  HookDispatcher

	stats         *ExecutionStats
	limits        []Limit
	exceededLimit *Limit

	startTime time.Time
	endTime   time.Time

	terminationReason TerminationReason
	finalResult       string
	err               error
}

// NewExecutionContext creates a new ExecutionContext with the given name and data.
// The context is canceled when a limit is exceeded or when ctx is canceled.
func NewExecutionContext(ctx context.Context, name string, data LoopData) *ExecutionContext {
	goCtx, cancel := context.WithCancel(ctx)
	execCtx := &ExecutionContext{
		goCtx:     goCtx,
		cancel:    cancel,
		name:      name,
		data:      data,
		events:    make([]Event, 0),
		startTime: time.Now(),
	}
	execCtx.stats = newExecutionStatsWithContext(execCtx)
	return execCtx
}

// -----------------------------------------------------------------------------
// Data Access
// -----------------------------------------------------------------------------

// Context returns the Go context for blocking operations (model and tool calls).
func (ctx *ExecutionContext) Context() context.Context {
	return ctx.goCtx
}

// Data returns the LoopData.
func (ctx *ExecutionContext) Data() LoopData {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.data
}

// Name returns the name of this execution context.
func (ctx *ExecutionContext) Name() string {
	return ctx.name
}

// Stats returns the live stats.
func (ctx *ExecutionContext) Stats() *ExecutionStats {
	return ctx.stats
}

// -----------------------------------------------------------------------------
// Iteration Management
// -----------------------------------------------------------------------------

// Iteration returns the current iteration number (1-indexed).
// Returns 0 if no iteration has started.
func (ctx *ExecutionContext) Iteration() int {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.iteration
}

// StartIteration begins a new iteration and increments KeyIterations.
// Called by the Executor; the increment may trip the iteration limit.
func (ctx *ExecutionContext) StartIteration() {
	ctx.mu.Lock()
	ctx.iteration++
	ctx.mu.Unlock()
	ctx.stats.incr(KeyIterations, 1)
}

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

// SetLimits replaces the configured limits.
func (ctx *ExecutionContext) SetLimits(limits []Limit) {
	ctx.mu.Lock()
	ctx.limits = append([]Limit(nil), limits...)
	ctx.mu.Unlock()
	ctx.checkLimits()
}

// Limits returns a copy of the configured limits.
func (ctx *ExecutionContext) Limits() []Limit {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return append([]Limit(nil), ctx.limits...)
}

// ExceededLimit returns the first limit that was exceeded, or nil.
func (ctx *ExecutionContext) ExceededLimit() *Limit {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.exceededLimit
}

// checkLimits cancels the context the first time any limit is exceeded.
func (ctx *ExecutionContext) checkLimits() {
	counters := ctx.stats.Counters()

	ctx.mu.Lock()
	if ctx.exceededLimit != nil {
		ctx.mu.Unlock()
		return
	}
	var event *LimitExceededEvent
	for _, limit := range ctx.limits {
		if key, ok := limit.exceeded(counters); ok {
			l := limit
			ctx.exceededLimit = &l
			event = &LimitExceededEvent{
				Limit:        l,
				MatchedKey:   key,
				CurrentValue: float64(counters[key]),
			}
			break
		}
	}
	ctx.mu.Unlock()

	if event != nil {
		ctx.cancel()
		ctx.Publish(event)
	}
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// SetHookDispatcher sets where published events are dispatched. Called by the Executor.
func (ctx *ExecutionContext) SetHookDispatcher(h HookDispatcher) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.hooks = h
}

// Publish records an event and dispatches it to hooks.
// Timestamp and Iteration are filled in when unset.
func (ctx *ExecutionContext) Publish(event Event) {
	ctx.mu.Lock()
	b := event.base()
	if b.Timestamp.IsZero() {
		b.Timestamp = time.Now()
	}
	if b.Iteration == 0 {
		b.Iteration = ctx.iteration
	}
	ctx.events = append(ctx.events, event)
	hooks := ctx.hooks
	ctx.mu.Unlock()

	if hooks != nil {
		hooks.Dispatch(ctx, event)
	}
}

// Events returns a copy of all recorded events.
func (ctx *ExecutionContext) Events() []Event {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	result := make([]Event, len(ctx.events))
	copy(result, ctx.events)
	return result
}

// PublishBeforeModelCall publishes a BeforeModelCallEvent.
func (ctx *ExecutionContext) PublishBeforeModelCall(model string, request any) {
	ctx.Publish(&BeforeModelCallEvent{Model: model, Request: request})
}

// PublishAfterModelCall publishes an AfterModelCallEvent and updates call and token stats.
func (ctx *ExecutionContext) PublishAfterModelCall(
	model string,
	request any,
	response *ContentResponse,
	duration time.Duration,
	err error,
) {
	ctx.stats.IncrCounter(KeyModelCalls, 1)
	if err != nil {
		ctx.stats.IncrCounter(KeyModelCallErrors, 1)
	}
	if response != nil && response.Info != nil {
		in, out := int64(response.Info.InputTokens), int64(response.Info.OutputTokens)
		ctx.stats.IncrCounter(KeyInputTokens, in)
		ctx.stats.IncrCounter(KeyOutputTokens, out)
		if model != "" {
			ctx.stats.IncrCounter(KeyInputTokensFor+StatKey(model), in)
			ctx.stats.IncrCounter(KeyOutputTokensFor+StatKey(model), out)
		}
	}
	ctx.Publish(&AfterModelCallEvent{
		Model:    model,
		Request:  request,
		Response: response,
		Duration: duration,
		Error:    err,
	})
}

// PublishBeforeToolCall publishes a BeforeToolCallEvent.
func (ctx *ExecutionContext) PublishBeforeToolCall(toolName, input string) {
	ctx.Publish(&BeforeToolCallEvent{ToolName: toolName, Input: input})
}

// PublishAfterToolCall publishes an AfterToolCallEvent and updates tool stats.
func (ctx *ExecutionContext) PublishAfterToolCall(
	toolName, input, output string,
	duration time.Duration,
	err error,
) {
	ctx.stats.IncrCounter(KeyToolCalls, 1)
	ctx.stats.IncrCounter(KeyToolCallsFor+StatKey(toolName), 1)
	if err != nil {
		ctx.stats.IncrCounter(KeyToolCallsErrorTotal, 1)
		ctx.stats.IncrCounter(KeyToolCallsErrorConsecutive, 1)
	} else {
		ctx.stats.ResetCounter(KeyToolCallsErrorConsecutive)
	}
	ctx.Publish(&AfterToolCallEvent{
		ToolName: toolName,
		Input:    input,
		Output:   output,
		Duration: duration,
		Error:    err,
	})
}

// PublishParseError publishes a ParseErrorEvent and updates parse error stats.
func (ctx *ExecutionContext) PublishParseError(errType ParseErrorType, raw string, err error) {
	ctx.stats.IncrCounter(KeyFormatParseErrorTotal, 1)
	ctx.stats.IncrCounter(KeyFormatParseErrorConsecutive, 1)
	ctx.Publish(&ParseErrorEvent{ErrorType: errType, RawContent: raw, Error: err})
}

// -----------------------------------------------------------------------------
// Termination
// -----------------------------------------------------------------------------

// SetTermination sets the termination reason and final result.
// Called by the Executor when execution ends.
func (ctx *ExecutionContext) SetTermination(reason TerminationReason, result string, err error) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.terminationReason = reason
	ctx.finalResult = result
	ctx.err = err
	ctx.endTime = time.Now()
}

// TerminationReason returns why execution terminated.
func (ctx *ExecutionContext) TerminationReason() TerminationReason {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.terminationReason
}

// FinalResult returns the final (or best-effort) result.
func (ctx *ExecutionContext) FinalResult() string {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.finalResult
}

// Error returns the error (if terminated with error).
func (ctx *ExecutionContext) Error() error {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.err
}

// Duration returns the total execution duration.
// If execution is still in progress, returns duration since start.
func (ctx *ExecutionContext) Duration() time.Duration {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	if ctx.endTime.IsZero() {
		return time.Since(ctx.startTime)
	}
	return ctx.endTime.Sub(ctx.startTime)
}

// Close releases the context's resources. Safe to call more than once.
func (ctx *ExecutionContext) Close() {
	ctx.cancel()
}
