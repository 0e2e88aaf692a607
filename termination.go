package researcher

// TerminationReason records why an execution ended.
type TerminationReason string

const (
	// TerminationSuccess means the loop produced a final answer.
	TerminationSuccess TerminationReason = "success"

	// TerminationLimitExceeded means a configured [Limit] was exceeded. When the exceeded
	// limit is the iteration cap, the execution still carries a best-effort result.
	TerminationLimitExceeded TerminationReason = "limit_exceeded"

	// TerminationContextCanceled means the Go context was canceled.
	TerminationContextCanceled TerminationReason = "context_canceled"

	// TerminationError means the loop returned an error (model failure, fatal parse error).
	TerminationError TerminationReason = "error"
)

// StoppedEarlyOutput is the best-effort result returned when the iteration cap is reached
// without a final answer.
const StoppedEarlyOutput = "Agent stopped due to iteration limit or time limit."

// TerminationStatus indicates the result of checking for termination.
type TerminationStatus int

const (
	// TerminationContinue indicates no answer section was found or it was empty.
	TerminationContinue TerminationStatus = iota

	// TerminationAnswerAccepted indicates an answer was found and accepted.
	TerminationAnswerAccepted
)

// TerminationResult contains the result of a termination check.
type TerminationResult struct {
	Status TerminationStatus

	// Content is the final answer when Status is [TerminationAnswerAccepted].
	Content string
}

// Termination is a [TextSection] that signals when the agent should stop.
//
// Each iteration, the agent loop:
//  1. Parses the model output using TextFormat.Parse()
//  2. Extracts content for the termination section (by Name())
//  3. Calls ShouldTerminate to check if the answer is acceptable
//
// Available implementation: termination.Text ("Final Answer").
type Termination interface {
	TextSection

	// ShouldTerminate checks if the given content indicates termination.
	// Panics if execCtx is nil.
	ShouldTerminate(execCtx *ExecutionContext, content string) *TerminationResult
}
