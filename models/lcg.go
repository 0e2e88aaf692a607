package models

import (
	"context"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/tmc/langchaingo/llms"
)

// LCG wraps an llms.Model and implements researcher.Model.
// It normalizes token usage across providers and publishes model call events
// when an ExecutionContext is provided.
//
//	llm, _ := openai.New(openai.WithToken(credential))
//	model := models.NewLCG(llm).WithModelName("gpt-4o-mini")
//
//	response, err := model.GenerateContent(execCtx, messages)
type LCG struct {
	model     llms.Model
	modelName string
}

// NewLCG creates a new LCG wrapping the given llms.Model.
func NewLCG(model llms.Model) *LCG {
	return &LCG{
		model: model,
	}
}

// WithModelName sets the model name used in events and per-model stats.
func (m *LCG) WithModelName(name string) *LCG {
	m.modelName = name
	return m
}

// Name returns the model name.
func (m *LCG) Name() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCG) Unwrap() llms.Model {
	return m.model
}

// GenerateContent implements researcher.Model.
// When execCtx is nil the call runs on context.Background and publishes nothing.
func (m *LCG) GenerateContent(
	execCtx *researcher.ExecutionContext,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*researcher.ContentResponse, error) {
	ctx := context.Background()
	if execCtx != nil {
		ctx = execCtx.Context()
		execCtx.PublishBeforeModelCall(m.modelName, messages)
	}

	startTime := time.Now()
	lcgResponse, err := m.model.GenerateContent(ctx, messages, options...)
	duration := time.Since(startTime)

	var response *researcher.ContentResponse
	if lcgResponse != nil {
		response = convertLCGResponse(lcgResponse, duration)
	}

	if execCtx != nil {
		execCtx.PublishAfterModelCall(m.modelName, messages, response, duration, err)
	}
	return response, err
}

// convertLCGResponse converts an llms.ContentResponse with normalized token counts.
func convertLCGResponse(
	lcgResponse *llms.ContentResponse,
	duration time.Duration,
) *researcher.ContentResponse {
	response := &researcher.ContentResponse{
		Choices: make([]*researcher.ContentChoice, len(lcgResponse.Choices)),
		Info:    &researcher.GenerationInfo{Duration: duration},
	}

	for i, choice := range lcgResponse.Choices {
		response.Choices[i] = &researcher.ContentChoice{
			Content:    choice.Content,
			StopReason: choice.StopReason,
		}
	}

	// Token info lives in the first choice's GenerationInfo.
	if len(lcgResponse.Choices) > 0 && lcgResponse.Choices[0].GenerationInfo != nil {
		rawInfo := lcgResponse.Choices[0].GenerationInfo
		response.Info.InputTokens = extractInputTokens(rawInfo)
		response.Info.OutputTokens = extractOutputTokens(rawInfo)
		response.Info.TotalTokens = extractTotalTokens(
			rawInfo,
			response.Info.InputTokens,
			response.Info.OutputTokens,
		)
	}

	return response
}

// extractInputTokens handles the key names used by different providers.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	if v := getIntFromMap(info, "input_tokens"); v > 0 {
		return v
	}
	return 0
}

func extractOutputTokens(info map[string]any) int {
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "output_tokens"); v > 0 {
		return v
	}
	return 0
}

// extractTotalTokens returns the reported total, or input+output when there is none.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

// getIntFromMap extracts an int value from a map, handling various numeric types.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

var _ researcher.Model = (*LCG)(nil)
