package researcher

import (
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model is the model interface used by the agent loop. It wraps LangChainGo's message types
// but returns normalized token usage and publishes model call events on the ExecutionContext.
//
// Implementations must call [ExecutionContext.PublishBeforeModelCall] and
// [ExecutionContext.PublishAfterModelCall] when execCtx is non-nil; stats and limits are
// updated from those events.
type Model interface {
	// GenerateContent generates content from a sequence of messages.
	// The execCtx parameter may be nil (e.g. one-off calls from tools in tests).
	GenerateContent(
		execCtx *ExecutionContext,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (*ContentResponse, error)
}

// ContentResponse is the response from a GenerateContent call.
type ContentResponse struct {
	// Choices contains the generated content choices.
	Choices []*ContentChoice

	// Info contains generation metadata including normalized token counts.
	Info *GenerationInfo
}

// Text returns the content of the first choice, or "" if there is none.
func (r *ContentResponse) Text() string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0] == nil {
		return ""
	}
	return r.Choices[0].Content
}

// ContentChoice is a single content choice from the model.
type ContentChoice struct {
	// Content is the textual content of the response.
	Content string

	// StopReason is the reason the model stopped generating.
	StopReason string
}

// GenerationInfo contains metadata about the generation including normalized token counts.
type GenerationInfo struct {
	// InputTokens is the number of input/prompt tokens used.
	//   - OpenAI: PromptTokens
	//   - Gemini: PromptTokenCount
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	//   - OpenAI: CompletionTokens
	//   - Gemini: CandidatesTokenCount
	OutputTokens int

	// TotalTokens is InputTokens + OutputTokens unless the provider reports it directly.
	TotalTokens int

	// Duration is how long the generation took.
	Duration time.Duration
}
