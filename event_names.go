package researcher

// Event names follow the pattern "namespace:category:timing".
//
//	researcher:iteration:before
//	researcher:model_call:after
//	researcher:parse_error
const (
	// Execution lifecycle
	EventNameExecutionBefore = "researcher:execution:before"
	EventNameExecutionAfter  = "researcher:execution:after"

	// Iteration lifecycle
	EventNameIterationBefore = "researcher:iteration:before"
	EventNameIterationAfter  = "researcher:iteration:after"

	// Model calls
	EventNameModelCallBefore = "researcher:model_call:before"
	EventNameModelCallAfter  = "researcher:model_call:after"

	// Tool calls
	EventNameToolCallBefore = "researcher:tool_call:before"
	EventNameToolCallAfter  = "researcher:tool_call:after"

	// Errors and limits
	EventNameParseError    = "researcher:parse_error"
	EventNameLimitExceeded = "researcher:limit_exceeded"
	EventNameError         = "researcher:error"
)

// ParseErrorType categorizes the source of a parse error.
type ParseErrorType string

const (
	// ParseErrorTypeFormat indicates the TextFormat found no labelled sections.
	ParseErrorTypeFormat ParseErrorType = "format"

	// ParseErrorTypeAction indicates sections were found but did not form a valid action
	// or final answer.
	ParseErrorTypeAction ParseErrorType = "action"
)
