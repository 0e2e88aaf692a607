package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/researcher"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by Gemini.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Gemini implements researcher.Model on the Google genai client.
type Gemini struct {
	models    contentGenerator
	modelName string
}

// NewGemini creates a Gemini model using the Gemini API backend.
func NewGemini(ctx context.Context, cfg Config, credential string) (*Gemini, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{models: client.Models, modelName: cfg.ModelName()}, nil
}

// Name returns the model name.
func (g *Gemini) Name() string {
	return g.modelName
}

// GenerateContent implements researcher.Model. Stop words and temperature from the
// call options are mapped onto the request config.
func (g *Gemini) GenerateContent(
	execCtx *researcher.ExecutionContext,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*researcher.ContentResponse, error) {
	ctx := context.Background()
	if execCtx != nil {
		ctx = execCtx.Context()
		execCtx.PublishBeforeModelCall(g.modelName, messages)
	}

	contents, config := toGenai(messages, options)

	startTime := time.Now()
	result, err := g.models.GenerateContent(ctx, g.modelName, contents, config)
	duration := time.Since(startTime)

	var response *researcher.ContentResponse
	if err == nil && result != nil {
		response = fromGenai(result, duration)
	}

	if execCtx != nil {
		execCtx.PublishAfterModelCall(g.modelName, messages, response, duration, err)
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

// toGenai converts LangChainGo messages and options into a genai request. System
// messages become the system instruction, AI messages use the "model" role.
func toGenai(
	messages []llms.MessageContent,
	options []llms.CallOption,
) ([]*genai.Content, *genai.GenerateContentConfig) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	temperature := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:   &temperature,
		StopSequences: opts.StopWords,
	}

	var contents []*genai.Content
	var system []*genai.Part
	for _, msg := range messages {
		parts := textParts(msg.Parts)
		if len(parts) == 0 {
			continue
		}
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			system = append(system, parts...)
		case llms.ChatMessageTypeAI:
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}
	return contents, config
}

func textParts(parts []llms.ContentPart) []*genai.Part {
	var out []*genai.Part
	for _, part := range parts {
		switch p := part.(type) {
		case llms.TextContent:
			out = append(out, &genai.Part{Text: p.Text})
		case *llms.TextContent:
			out = append(out, &genai.Part{Text: p.Text})
		}
	}
	return out
}

func fromGenai(result *genai.GenerateContentResponse, duration time.Duration) *researcher.ContentResponse {
	response := &researcher.ContentResponse{
		Info: &researcher.GenerationInfo{Duration: duration},
	}

	for _, candidate := range result.Candidates {
		if candidate == nil {
			continue
		}
		var sb strings.Builder
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part != nil {
					sb.WriteString(part.Text)
				}
			}
		}
		response.Choices = append(response.Choices, &researcher.ContentChoice{
			Content:    sb.String(),
			StopReason: string(candidate.FinishReason),
		})
	}

	if usage := result.UsageMetadata; usage != nil {
		response.Info.InputTokens = int(usage.PromptTokenCount)
		response.Info.OutputTokens = int(usage.CandidatesTokenCount)
		response.Info.TotalTokens = int(usage.TotalTokenCount)
		if response.Info.TotalTokens == 0 {
			response.Info.TotalTokens = response.Info.InputTokens + response.Info.OutputTokens
		}
	}
	return response
}

var _ researcher.Model = (*Gemini)(nil)
