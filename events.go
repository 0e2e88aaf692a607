package researcher

import "time"

// Event is implemented by every lifecycle event recorded on an ExecutionContext.
type Event interface {
	// EventName returns one of the EventName* constants.
	EventName() string

	base() *BaseEvent
}

// BaseEvent carries the position of an event within an execution.
type BaseEvent struct {
	Timestamp time.Time
	Iteration int
}

func (e *BaseEvent) base() *BaseEvent { return e }

// -----------------------------------------------------------------------------
// Executor Events
// -----------------------------------------------------------------------------

// BeforeExecutionEvent is published once before the first iteration begins.
type BeforeExecutionEvent struct {
	BaseEvent

	// Task is the question being answered.
	Task string
}

func (*BeforeExecutionEvent) EventName() string { return EventNameExecutionBefore }

// AfterExecutionEvent is published once after execution terminates.
type AfterExecutionEvent struct {
	BaseEvent

	TerminationReason TerminationReason
	Result            string

	// Error is the error if execution failed (nil on success and on the iteration cap).
	Error error
}

func (*AfterExecutionEvent) EventName() string { return EventNameExecutionAfter }

// BeforeIterationEvent is published before each AgentLoop.Next call.
type BeforeIterationEvent struct {
	BaseEvent
}

func (*BeforeIterationEvent) EventName() string { return EventNameIterationBefore }

// AfterIterationEvent is published after each successful AgentLoop.Next call.
type AfterIterationEvent struct {
	BaseEvent

	Result   *AgentLoopResult
	Duration time.Duration
}

func (*AfterIterationEvent) EventName() string { return EventNameIterationAfter }

// -----------------------------------------------------------------------------
// Model Call Events
// -----------------------------------------------------------------------------

// BeforeModelCallEvent is published before each model API call.
type BeforeModelCallEvent struct {
	BaseEvent

	Model   string
	Request any
}

func (*BeforeModelCallEvent) EventName() string { return EventNameModelCallBefore }

// AfterModelCallEvent is published after each model API call completes.
type AfterModelCallEvent struct {
	BaseEvent

	Model    string
	Request  any
	Response *ContentResponse
	Duration time.Duration
	Error    error
}

func (*AfterModelCallEvent) EventName() string { return EventNameModelCallAfter }

// -----------------------------------------------------------------------------
// Tool Call Events
// -----------------------------------------------------------------------------

// BeforeToolCallEvent is published before each tool call.
type BeforeToolCallEvent struct {
	BaseEvent

	ToolName string
	Input    string
}

func (*BeforeToolCallEvent) EventName() string { return EventNameToolCallBefore }

// AfterToolCallEvent is published after each tool call.
type AfterToolCallEvent struct {
	BaseEvent

	ToolName string
	Input    string
	Output   string
	Duration time.Duration
	Error    error
}

func (*AfterToolCallEvent) EventName() string { return EventNameToolCallAfter }

// -----------------------------------------------------------------------------
// Error Events
// -----------------------------------------------------------------------------

// ParseErrorEvent is published when model output cannot be parsed.
type ParseErrorEvent struct {
	BaseEvent

	ErrorType  ParseErrorType
	RawContent string
	Error      error
}

func (*ParseErrorEvent) EventName() string { return EventNameParseError }

// LimitExceededEvent is published when a limit is crossed.
type LimitExceededEvent struct {
	BaseEvent

	Limit        Limit
	MatchedKey   StatKey
	CurrentValue float64
}

func (*LimitExceededEvent) EventName() string { return EventNameLimitExceeded }

// ErrorEvent is published when the loop returns an error.
type ErrorEvent struct {
	BaseEvent

	Err error
}

func (*ErrorEvent) EventName() string { return EventNameError }
