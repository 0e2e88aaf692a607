package researcher

// StatKey identifies a counter in [ExecutionStats].
type StatKey string

// KeyPrefix is the prefix of all framework keys.
// Applications should use their own prefix for custom counters.
const KeyPrefix = "researcher:"

// Iteration tracking.
// This key is protected - IncrCounter and ResetCounter ignore it.
// Only the ExecutionContext increments it when an iteration starts.
const KeyIterations StatKey = "researcher:iterations"

// Model call and token tracking keys.
const (
	KeyModelCalls      StatKey = "researcher:model_calls"
	KeyModelCallErrors StatKey = "researcher:model_call_errors"
	KeyInputTokens     StatKey = "researcher:input_tokens"
	KeyInputTokensFor  StatKey = "researcher:input_tokens:" // + model name
	KeyOutputTokens    StatKey = "researcher:output_tokens"
	KeyOutputTokensFor StatKey = "researcher:output_tokens:" // + model name
)

// Tool call tracking keys.
const (
	KeyToolCalls                 StatKey = "researcher:tool_calls"
	KeyToolCallsFor              StatKey = "researcher:tool_calls:" // + tool name
	KeyToolCallsErrorTotal       StatKey = "researcher:tool_calls_error_total"
	KeyToolCallsErrorConsecutive StatKey = "researcher:tool_calls_error_consecutive"
	KeyUnknownToolTotal          StatKey = "researcher:unknown_tool_total"
)

// Parse error tracking keys (model output that is neither an action nor a final answer).
const (
	KeyFormatParseErrorTotal       StatKey = "researcher:format_parse_error_total"
	KeyFormatParseErrorConsecutive StatKey = "researcher:format_parse_error_consecutive"
)

// protectedKeys contains keys that cannot be modified by user code.
var protectedKeys = map[StatKey]bool{
	KeyIterations: true,
}

func isProtectedKey(key StatKey) bool {
	return protectedKeys[key]
}
