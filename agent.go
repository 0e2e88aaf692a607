package researcher

// AgentLoop is responsible for:
//  1. Constructing the prompt sent to the model.
//  2. Calling the model with the constructed prompt.
//  3. Parsing the model output and processing it (tool calls, termination).
//  4. Deciding whether to continue the loop or terminate with a result.
//
// The executor calls [AgentLoop.Next] repeatedly until it returns [LATerminate],
// an error occurs, or a limit is exceeded.
type AgentLoop[Data LoopData] interface {
	// Next performs one iteration of the agent loop.
	// LoopData is reachable through execCtx.Data(), and all framework components
	// (Model, ToolChain) publish their events on the same ExecutionContext.
	Next(execCtx *ExecutionContext) (*AgentLoopResult, error)
}

// LoopData is the data passed through each AgentLoop iteration.
type LoopData interface {
	// GetTask returns the question that started the loop.
	GetTask() string

	// GetIterationHistory returns every recorded Iteration.
	GetIterationHistory() []*Iteration

	// AddIterationHistory appends an Iteration to the full history.
	AddIterationHistory(iter *Iteration)

	// GetScratchPad returns the iterations rendered into the next prompt.
	GetScratchPad() []*Iteration

	// SetScratchPad replaces the iterations rendered into the next prompt.
	SetScratchPad(iterations []*Iteration)
}

// Iteration is one Thought/Action/Observation step of the scratchpad.
type Iteration struct {
	// Log is the raw model output for this step, up to (not including) the
	// observation.
	Log string

	// Call is the tool call parsed from Log. Nil when the step ended in a
	// parse error or a final answer.
	Call *ToolCall

	// Observation is what was fed back to the model. Empty for the final step.
	Observation string
}

type LoopAction string

const (
	LAContinue  LoopAction = "c"
	LATerminate LoopAction = "t"
)

type AgentLoopResult struct {
	// Action indicates whether to continue or terminate the loop.
	Action LoopAction

	// NextPrompt is the observation fed back to the model. Only set when Action
	// is [LAContinue].
	NextPrompt string

	// Result is the final answer. Only set when Action is [LATerminate].
	Result string
}
